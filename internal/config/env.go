package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvLogLevel overrides logging.level.
const EnvLogLevel = "DOCSYNC_LOG_LEVEL"

// loadEnvFile loads environment variables from .env/.env.local files.
// It stops at the first file that exists. Existing process environment
// variables are not overwritten.
func loadEnvFile() error {
	for _, envPath := range []string{".env", ".env.local"} {
		err := godotenv.Load(envPath)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envPath, err)
		}
	}
	return errors.New("no .env file found")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}
