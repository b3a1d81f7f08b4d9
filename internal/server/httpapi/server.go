// Package httpapi exposes the public HTTP endpoints: registration, the
// password-grant token endpoint, and the bearer-protected upload and
// listing routes.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/dropvault/internal/logging"
	"github.com/dmitrijs2005/dropvault/internal/server/models"
	"github.com/gorilla/mux"
)

// userSvc is the slice of UserService the handlers need.
type userSvc interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ResolveToken(ctx context.Context, tokenString string) (string, error)
}

// fileSvc is the slice of FileService the handlers need.
type fileSvc interface {
	Save(ctx context.Context, owner, name string, r io.Reader) (*models.StoredFile, error)
	List(ctx context.Context, owner string) ([]*models.StoredFile, error)
}

type HTTPServer struct {
	address       string
	users         userSvc
	files         fileSvc
	logger        logging.Logger
	allowedOrigin string
}

func NewHTTPServer(a string, l logging.Logger, us userSvc, fs fileSvc, allowedOrigin string) (*HTTPServer, error) {
	return &HTTPServer{
		address:       a,
		logger:        l.With("module", "http_server"),
		users:         us,
		files:         fs,
		allowedOrigin: allowedOrigin,
	}, nil
}

// Router builds the route table. Registration and login are public;
// upload and listing sit behind the bearer-token middleware.
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.Health).Methods(http.MethodGet)
	r.HandleFunc("/register", s.Register).Methods(http.MethodPost)
	r.HandleFunc("/token", s.Token).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/upload", s.Upload).Methods(http.MethodPost)
	protected.HandleFunc("/files", s.Files).Methods(http.MethodGet)

	return s.corsMiddleware(r)
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
