package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file when present. Existing environment
// variables are not overwritten, so it is safe in production where
// configuration comes from the process environment.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := loadIfExists(path); err != nil {
			return err
		}
	}
	return loadIfExists(".env")
}

func loadIfExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}
