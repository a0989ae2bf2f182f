package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration, populated from the environment.
type Config struct {
	Server ServerConfig `envconfig:"SERVER"`
	Mongo  MongoConfig  `envconfig:"MONGODB"`
	Auth   AuthConfig   `envconfig:"AUTH"`
	CORS   CORSConfig   `envconfig:"CORS"`
	Log    LogConfig    `envconfig:"LOG"`
}

type ServerConfig struct {
	Host         string        `envconfig:"HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"PORT" default:"8000"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`
}

type MongoConfig struct {
	URL      string `envconfig:"URL" default:"mongodb://localhost:27017"`
	Database string `envconfig:"DB_NAME" default:"cortexsupport"`
}

type AuthConfig struct {
	SecretKey string `envconfig:"SECRET_KEY" default:"change-me-in-production"`
	// TokenTTL is the lifetime of access tokens minted at login.
	TokenTTL time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
}

type CORSConfig struct {
	// Origins is a comma-separated list of allowed origins, or "*" for all.
	Origins string `envconfig:"ORIGINS" default:"*"`
}

type LogConfig struct {
	Level string `envconfig:"LEVEL" default:"info"`
}

// Load reads an optional .env file at path and then the process environment.
// A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OriginList splits the configured origins into the form CORS middleware expects.
func (c CORSConfig) OriginList() []string {
	if strings.TrimSpace(c.Origins) == "" || c.Origins == "*" {
		return []string{"*"}
	}
	parts := strings.Split(c.Origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
