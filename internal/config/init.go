package config

import (
	"os"
	"path/filepath"
)

// Init looks for app.yml in CONFIG_DIR (or the working directory) and loads it.
// A missing file is an error so that tooling does not silently run on defaults.
func Init() (*Config, error) {
	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, "app.yml")
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	return LoadConfig(path)
}
