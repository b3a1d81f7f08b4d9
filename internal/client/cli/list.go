package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) List(ctx context.Context) {

	files, err := a.apiClient.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	if len(files) == 0 {
		fmt.Println("No files yet")
		return
	}
	for _, item := range files {
		fmt.Printf("%s\t%d\n", item.Name, item.Size)
	}
}
