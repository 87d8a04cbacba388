package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionFile    string
	IsProduction   bool
	LogLevel       string
}

// LoadConfig loads configuration from environment variables and a .env
// file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("CRM_API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("CRM_REQUEST_TIMEOUT", "30s")
	viper.SetDefault("CRM_SESSION_FILE", "")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.APIBaseURL = viper.GetString("CRM_API_BASE_URL")
	if cfg.APIBaseURL == "" {
		log.Println("Warning: CRM_API_BASE_URL environment variable not set.")
	}

	timeoutStr := viper.GetString("CRM_REQUEST_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		log.Printf("Warning: Invalid value for CRM_REQUEST_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.RequestTimeout = timeout

	cfg.SessionFile = viper.GetString("CRM_SESSION_FILE")
	if cfg.SessionFile == "" {
		cfg.SessionFile = defaultSessionFile()
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	return cfg, nil
}

// defaultSessionFile places the persisted session under the user config
// directory, falling back to the working directory when none is known.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".crmadmin-session.json"
	}
	return filepath.Join(dir, "crmadmin", "session.json")
}
