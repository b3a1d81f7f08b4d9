package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file
// in the working directory is loaded first when present (it does not
// override variables already set in the environment).
//
// Recognized variables:
//
//	ADDRESS                      HTTP bind address
//	DATABASE_DSN                 PostgreSQL DSN
//	SECRET_KEY                   JWT HMAC secret
//	ACCESS_TOKEN_EXPIRE_MINUTES  access token validity, minutes
//	STORAGE_BACKEND              "disk" or "s3"
//	UPLOAD_DIR                   directory for the disk backend
//	OVERWRITE_POLICY             "reject" or "replace"
//	CORS_ALLOWED_ORIGIN          allowed browser origin
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(key string, target *string) {
		if v, ok := os.LookupEnv(key); ok {
			*target = v
		}
	}

	setString("ADDRESS", &config.Addr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("SECRET_KEY", &config.SecretKey)
	setString("STORAGE_BACKEND", &config.StorageBackend)
	setString("UPLOAD_DIR", &config.UploadDir)
	setString("OVERWRITE_POLICY", &config.Overwrite)
	setString("CORS_ALLOWED_ORIGIN", &config.CORSAllowedOrigin)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
		}
	}
}
