package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", "127.0.0.1:9999")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("STORAGE_BACKEND", BackendS3)
	t.Setenv("OVERWRITE_POLICY", OverwriteReplace)

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, "127.0.0.1:9999", c.Addr)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 45*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, BackendS3, c.StorageBackend)
	assert.Equal(t, OverwriteReplace, c.Overwrite)
}

func TestParseEnv_IgnoresUnsetAndInvalid(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "not-a-number")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c)

	assert.Equal(t, ":8080", c.Addr, "unset variables keep defaults")
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration, "invalid number keeps default")
}
