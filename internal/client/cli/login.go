package cli

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/dropvault/internal/common"
)

func (a *App) Login(ctx context.Context) {

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

	if err := a.apiClient.Login(ctx, userName, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return
	}

	a.userName = userName
	log.Printf("Login successful")
}

func (a *App) Logout() {
	a.userName = ""
	log.Printf("Logged out")
}
