package config

import (
	"time"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
}

type EnvConfig interface {
	GetServiceURL() string
	GetAppName() string
	GetDataFolder() string
	GetRequestTimeout() time.Duration
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}

// Load reads a local .env file if one exists and returns the config.
// A missing .env is not an error; real environment variables win either way.
func Load() Config {
	_ = godotenv.Load()
	return New()
}
