package services

import (
	"fmt"
	"os"

	"sangobot/core/log"
	"sangobot/models"

	"github.com/joho/godotenv"
)

const defaultSavePath = "savedata.json"

// LoadConfig reads process configuration from the environment, with an
// optional .env file for local runs.
func LoadConfig() (*models.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded: %v", err)
	}

	host := os.Getenv("SANGOBOT_HOST")
	if host == "" {
		return nil, fmt.Errorf("SANGOBOT_HOST environment variable is required but not set")
	}
	token := os.Getenv("SANGOBOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("SANGOBOT_TOKEN environment variable is required but not set")
	}
	adminID := os.Getenv("SANGOBOT_ADMIN_ID")
	if adminID == "" {
		return nil, fmt.Errorf("SANGOBOT_ADMIN_ID environment variable is required but not set")
	}
	savePath := os.Getenv("SANGOBOT_SAVEDATA")
	if savePath == "" {
		savePath = defaultSavePath
	}

	return &models.Config{
		Host:     host,
		Token:    token,
		AdminID:  adminID,
		SavePath: savePath,
	}, nil
}
