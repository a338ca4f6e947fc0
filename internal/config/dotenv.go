package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// AppDir is the name of the per-project and per-user configuration directory.
	AppDir = ".autoupdater"
	// EnvFileName is the name of the environment variables file.
	EnvFileName = ".env"
)

// LoadDotEnv loads environment variables from <baseDir>/.autoupdater/.env if it
// exists. Variables already set in the environment are never overridden.
// Returns error only if the file exists but cannot be parsed.
func LoadDotEnv(baseDir string) error {
	envPath := filepath.Join(baseDir, AppDir, EnvFileName)

	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}

	return godotenv.Load(envPath)
}

// LoadDotEnvFromCwd loads .env from current working directory's .autoupdater/.env.
func LoadDotEnvFromCwd() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	return LoadDotEnv(cwd)
}
