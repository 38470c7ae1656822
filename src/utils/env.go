package utils

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const envFilename = ".env"

// InitEnvironmentVariables loads the local .env file outside production. A
// missing file is fine: the process may be configured by the environment
// alone.
func InitEnvironmentVariables() error {
	if os.Getenv("GO_ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	if err := godotenv.Load(envFilename); err != nil {
		log.Debugf("InitEnvironmentVariables: no %s file loaded: %v", envFilename, err)
	}

	return nil
}
