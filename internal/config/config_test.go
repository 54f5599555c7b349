package config_test

import (
	"testing"

	"github.com/craftsite/go-auth-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load()
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "https://api.craftsite.app", cfg.APIBaseURL)
	require.NotEmpty(t, cfg.StorageDir)
	require.Equal(t, []string{"localhost", "craftsite.app"}, cfg.RootDomains)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("ROOT_DOMAINS", "localhost, example.com ,")

	cfg := config.Load()
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	require.Equal(t, []string{"localhost", "example.com"}, cfg.RootDomains)
}
