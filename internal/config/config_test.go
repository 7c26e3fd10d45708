package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORE_DOMAIN", "demo.myshopify.com")
	t.Setenv("STOREFRONT_API_TOKEN", "tok")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.StorefrontToken)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestStorefrontEndpoint(t *testing.T) {
	cfg := Config{StoreDomain: "demo.myshopify.com"}

	assert.Equal(t, "https://demo.myshopify.com/api/2025-10/graphql.json", cfg.StorefrontEndpoint())
}
