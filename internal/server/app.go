// Package server initializes and runs the application server: it opens the
// database, applies migrations, selects the storage backend, and starts the
// HTTP API with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/dropvault/internal/common"
	"github.com/dmitrijs2005/dropvault/internal/filex"
	"github.com/dmitrijs2005/dropvault/internal/logging"
	"github.com/dmitrijs2005/dropvault/internal/server/config"
	"github.com/dmitrijs2005/dropvault/internal/server/httpapi"
	"github.com/dmitrijs2005/dropvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dropvault/internal/server/services"
	"github.com/dmitrijs2005/dropvault/internal/server/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// secretKeyBytes is the size of the random HMAC key generated when no
// SecretKey is configured.
const secretKeyBytes = 32

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	if cfg.SecretKey == "" {
		key, err := common.MakeRandHexString(secretKeyBytes)
		if err != nil {
			return nil, fmt.Errorf("secret key generation error: %w", err)
		}
		cfg.SecretKey = key
		logger.Warn(context.Background(),
			"No secret key configured, generated a random one; tokens will not survive a restart")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repository manager init error: %w", err)
	}

	return &App{config: cfg, logger: logger, db: db, repomanager: m}, nil
}

// initFileStore picks the storage backend from the config.
func (app *App) initFileStore(ctx context.Context) (storage.FileStore, error) {
	switch app.config.StorageBackend {
	case config.BackendS3:
		return storage.NewS3Store(ctx,
			app.config.S3RootUser, app.config.S3RootPassword,
			app.config.S3Region, app.config.S3BaseEndpoint, app.config.S3Bucket)
	case config.BackendDisk:
		dir, err := filex.EnsureDir(app.config.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("upload dir init error: %w", err)
		}
		return storage.NewDiskStore(dir), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", app.config.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc,
	us *services.UserService, fs *services.FileService) {

	s, err := httpapi.NewHTTPServer(app.config.Addr, app.logger, us, fs, app.config.CORSAllowedOrigin)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, fmt.Sprintf("migration error: %v", err))
		return
	}

	store, err := app.initFileStore(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		return
	}
	app.logger.Info(ctx, "Storage backend ready", "backend", app.config.StorageBackend)

	us := services.NewUserService(app.db, app.repomanager, app.config)
	fs := services.NewFileService(store, app.config)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc, us, fs)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, fmt.Sprintf("db close error: %v", err))
	}
}
