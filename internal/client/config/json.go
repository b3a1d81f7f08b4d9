package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/dropvault/internal/flagx"
)

// JsonConfig mirrors Config for the optional JSON config file.
type JsonConfig struct {
	ServerURL *string `json:"server_url"`
}

func parseJson(cfg *Config) {

	fileName := flagx.JsonConfigFlags()
	if fileName == "" {
		return
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		return
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
}
