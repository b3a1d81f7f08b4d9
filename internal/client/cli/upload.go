package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

func (a *App) Upload(ctx context.Context, path string) {

	f, err := os.Open(path)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer f.Close()

	info, err := a.apiClient.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		log.Printf("Upload unsuccessful: %s", err.Error())
		return
	}

	fmt.Println(info)
}
