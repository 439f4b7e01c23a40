package config

import "os"

const (
	appNameVar         = "APP_NAME"
	baseURLVar         = "BASE_URL"
	tokenFileVar       = "TOKEN_FILE"
	tokenFileSecretVar = "TOKEN_FILE_SECRET"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Admin Client")
}

// GetBaseURL returns the backend base URL (e.g., "https://api.example.com").
// All auth endpoints are resolved relative to it.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetTokenFile() string {
	return GetEnv(tokenFileVar, ".admin-tokens.json")
}

func (EnvVars) GetTokenFileSecret() string {
	return GetEnv(tokenFileSecretVar, "")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
