// Package config provides SDK configuration loading and management.
package config

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds SDK configuration values loaded from file or environment
// variables.
type Config struct {
	BaseURL string `mapstructure:"GORANT_BASE_URL"`
	AppID   int    `mapstructure:"GORANT_APP_ID"`
	// PersistSession enables automatic credential refresh and keyring
	// persistence; when disabled every operation must be handed a token
	// explicitly.
	PersistSession bool   `mapstructure:"GORANT_PERSIST_SESSION"`
	KeyringPath    string `mapstructure:"GORANT_KEYRING"`
	SealKey        string `mapstructure:"GORANT_SEAL_KEY"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	Debug          bool   `mapstructure:"GORANT_DEBUG"`
}

// LoadConfig loads SDK configuration from .env, config file and environment
// variables.
func LoadConfig() *Config {
	// Best-effort .env load for local development
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	// Set default values
	viper.SetDefault("GORANT_BASE_URL", "https://devrant.com/api")
	viper.SetDefault("GORANT_APP_ID", 3)
	viper.SetDefault("GORANT_PERSIST_SESSION", true)
	viper.SetDefault("GORANT_KEYRING", "gorant-keyring.db")
	viper.SetDefault("GORANT_SEAL_KEY", "dev-seal-key-change-in-production")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("GORANT_DEBUG", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode config into struct, %v", err)
	}

	return &config
}
