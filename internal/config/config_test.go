package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexsupport/backend-api/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URL)
	assert.Equal(t, "cortexsupport", cfg.Mongo.Database)
	assert.Equal(t, "168h0m0s", cfg.Auth.TokenTTL.String())
	assert.Equal(t, "*", cfg.CORS.Origins)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MONGODB_URL", "mongodb://db:27017")
	t.Setenv("MONGODB_DB_NAME", "testdb")
	t.Setenv("AUTH_SECRET_KEY", "testsecret")
	t.Setenv("AUTH_TOKEN_TTL", "15m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URL)
	assert.Equal(t, "testdb", cfg.Mongo.Database)
	assert.Equal(t, "testsecret", cfg.Auth.SecretKey)
	assert.Equal(t, "15m0s", cfg.Auth.TokenTTL.String())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestOriginList(t *testing.T) {
	tests := []struct {
		name     string
		origins  string
		expected []string
	}{
		{name: "wildcard", origins: "*", expected: []string{"*"}},
		{name: "empty falls back to wildcard", origins: "", expected: []string{"*"}},
		{name: "single origin", origins: "https://app.example.com", expected: []string{"https://app.example.com"}},
		{
			name:     "multiple with whitespace",
			origins:  "https://a.example.com, https://b.example.com ,",
			expected: []string{"https://a.example.com", "https://b.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := config.CORSConfig{Origins: tt.origins}
			assert.Equal(t, tt.expected, c.OriginList())
		})
	}
}
