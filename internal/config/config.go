// Package config loads runtime configuration from environment variables,
// with .env support for local development.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config contains runtime configuration values.
type Config struct {
	Environment string
	APIBaseURL  string
	StorageDir  string
	RootDomains []string
}

// Load reads configuration from the environment with sane defaults. A
// missing .env file is not an error.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	return Config{
		Environment: getEnv("APP_ENV", "development"),
		APIBaseURL:  getEnv("API_BASE_URL", "https://api.craftsite.app"),
		StorageDir:  getEnv("STORAGE_DIR", defaultStorageDir()),
		RootDomains: getList("ROOT_DOMAINS", []string{"localhost", "craftsite.app"}),
	}
}

func defaultStorageDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".craftsite"
	}
	return configDir + string(os.PathSeparator) + "craftsite"
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	var cleaned []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return def
	}
	return cleaned
}
