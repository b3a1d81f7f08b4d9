package cli

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

func (a *App) Register(ctx context.Context) {

	userName, err := GetSimpleText(a.reader, "Enter user name", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}
	defer common.WipeByteArray(password)

	if err := a.apiClient.Register(ctx, userName, password); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return
	}

	log.Printf("Registered, you can now log in")
}
