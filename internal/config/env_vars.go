package config

import (
	"os"
	"time"
)

const (
	serviceURLVar = "SERVICE_URL"
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	timeoutVar    = "REQUEST_TIMEOUT"

	defaultRequestTimeout = 15 * time.Second
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

// GetServiceURL returns the base URL of the clinical records service.
func (EnvVars) GetServiceURL() string {
	return GetEnv(serviceURLVar, "http://localhost:8000")
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Clinic Console")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetRequestTimeout returns the per-request timeout for service calls.
func (EnvVars) GetRequestTimeout() time.Duration {
	raw := GetEnv(timeoutVar, "")
	if raw == "" {
		return defaultRequestTimeout
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultRequestTimeout
	}
	return d
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
