// Package client implements the transport layer of the CLI: an HTTP client
// for the DropVault API.
package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/dropvault/internal/client/models"
)

type Client interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	List(ctx context.Context) ([]models.FileItem, error)
	Ping(ctx context.Context) error
}
