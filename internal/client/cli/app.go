// Package cli implements the interactive command-line client.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dmitrijs2005/dropvault/internal/client/client"
	"github.com/dmitrijs2005/dropvault/internal/client/config"
)

type App struct {
	config    *config.Config
	apiClient client.Client
	userName  string
	reader    *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := client.NewHTTPClient(c.ServerURL)
	return &App{config: c, apiClient: apiClient, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}
