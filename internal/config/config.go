package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the backend used when nothing is configured.
const DefaultBaseURL = "http://localhost:8080"

// Config holds user preferences
type Config struct {
	BaseURL       string  `yaml:"base_url" json:"base_url"`             // Attendance backend endpoint
	PullThreshold float64 `yaml:"pull_threshold" json:"pull_threshold"` // Pull-to-refresh release threshold

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	logPath := ""
	if home != "" {
		logPath = filepath.Join(home, ".onescan", "logs", "onescan.log")
	}

	return &Config{
		BaseURL:       getEnv("ONESCAN_BASE_URL", DefaultBaseURL),
		PullThreshold: 60,
		LogLevel:      getEnv("ONESCAN_LOG_LEVEL", "INFO"),
		LogFile:       getEnv("ONESCAN_LOG_FILE", logPath),
		LogConsole:    getEnv("ONESCAN_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Dir returns the onescan config directory (~/.onescan), creating it if needed.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".onescan")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Load loads config from ~/.onescan/config.yaml
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".onescan", "config.yaml")

	// Return defaults if no config file exists yet
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.PullThreshold <= 0 {
		cfg.PullThreshold = 60
	}

	return cfg, nil
}

// Save saves config to ~/.onescan/config.yaml
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(dir, "config.yaml")
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
