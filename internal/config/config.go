package config

import (
	"time"

	"github.com/FilippTrigub/showNDev/pkg/config"
)

// Config stores environment configuration for the showndev service.
type Config struct {
	Port            string
	DatabaseURL     string
	LLMProvider     string
	LLMModel        string
	LLMAPIKey       string
	LLMAPIURL       string
	LLMMaxTokens    int
	PublishInterval time.Duration
}

// LoadConfig loads the service configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port:            config.GetEnv("PORT", "18090"),
		DatabaseURL:     config.GetEnv("DATABASE_URL", ""),
		LLMProvider:     config.GetEnv("LLM_PROVIDER", "openai"),
		LLMModel:        config.GetEnv("LLM_MODEL", ""),
		LLMAPIKey:       config.GetEnv("LLM_API_KEY", ""),
		LLMAPIURL:       config.GetEnv("LLM_API_URL", ""),
		LLMMaxTokens:    config.GetEnvInt("LLM_MAX_TOKENS", 0),
		PublishInterval: config.GetEnvDuration("PUBLISH_MIN_INTERVAL", time.Second),
	}
}
