package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env and .env.local from the working directory and from the
// config file's directory. Existing process environment variables are not overwritten,
// and missing files are ignored.
func loadEnvFiles(configPath string) {
	candidates := []string{".env", ".env.local"}
	if configPath != "" {
		if dir := filepath.Dir(configPath); dir != "." {
			candidates = append(candidates, filepath.Join(dir, ".env"), filepath.Join(dir, ".env.local"))
		}
	}
	for _, path := range candidates {
		_ = godotenv.Load(path)
	}
}
