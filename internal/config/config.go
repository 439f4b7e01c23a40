package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	AuthConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetTokenFile() string
	GetTokenFileSecret() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Auth
}

func New() Config {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()
	return mainConfig{}
}
