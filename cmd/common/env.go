package common

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// LoadEnvFile loads variables from an env file without overriding ones already
// set in the process environment. A missing file is not an error.
func LoadEnvFile(path string, log zerolog.Logger) error {
	if path == "" {
		path = ".env"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Debug().Str("path", path).Msg("environment file not found, using process environment")
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		log.Warn().Err(err).Msgf("⚠️  Could not load %s", path)
		return err
	}

	log.Debug().Str("path", path).Msg("environment loaded")
	return nil
}
