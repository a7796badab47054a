package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 100, cfg.FeedLimit)
	assert.Equal(t, 280, cfg.PostMaxLength)
	assert.Equal(t, "__session", cfg.SessionCookie)
	assert.Equal(t, "/sign-in", cfg.SignInURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("POST_MAX_LENGTH", "10")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 10, cfg.PostMaxLength)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no verifier", map[string]string{"JWT_SECRET": "", "OIDC_ISSUER": ""}},
		{"oidc without client", map[string]string{"JWT_SECRET": "", "OIDC_ISSUER": "https://issuer.example"}},
		{"zero feed limit", map[string]string{"JWT_SECRET": "s", "FEED_LIMIT": "0"}},
		{"negative max length", map[string]string{"JWT_SECRET": "s", "POST_MAX_LENGTH": "-1"}},
		{"bad port", map[string]string{"JWT_SECRET": "s", "PORT": "http"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
