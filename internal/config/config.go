package config

import (
	"os"
	"strconv"
	"strings"

	"pricebook/internal/errors"

	"github.com/joho/godotenv"
)

// Default locations, matching where the front-end expects its data
const (
	DefaultInputPath  = "input/pricebook.xlsx"
	DefaultOutputPath = "src/servicedata.json"
	DefaultPort       = "8080"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig
	Server   ServerConfig
	LogLevel string
}

// PathConfig holds file system paths
type PathConfig struct {
	InputFile  string
	OutputFile string
	// Sheet is the worksheet to read; empty means the first sheet
	Sheet string
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Port string
}

// LoadEnvFile loads variables from .env files into the process environment.
// A missing file is not an error; existing variables are never overridden.
func LoadEnvFile(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	var present []string
	for _, name := range filenames {
		if _, err := os.Stat(name); err == nil {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return errors.Wrap(err, "failed to load .env file")
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Paths:    *loadPathConfig(),
		Server:   *loadServerConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadPathConfig() *PathConfig {
	return &PathConfig{
		InputFile:  getEnvOrDefault("PRICEBOOK_INPUT", DefaultInputPath),
		OutputFile: getEnvOrDefault("PRICEBOOK_OUTPUT", DefaultOutputPath),
		Sheet:      getEnvOrDefault("PRICEBOOK_SHEET", ""),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port: getEnvOrDefault("PORT", DefaultPort),
	}
}

// Validate checks required fields, used again after flag overrides
func Validate(config *Config) error {
	if strings.TrimSpace(config.Paths.InputFile) == "" {
		return errors.ConfigInvalid("input file path is required")
	}
	if strings.TrimSpace(config.Paths.OutputFile) == "" {
		return errors.ConfigInvalid("output file path is required")
	}
	if port := config.Server.Port; port != "" {
		if n, err := strconv.Atoi(port); err != nil || n <= 0 || n > 65535 {
			return errors.ConfigInvalid("invalid port: " + port)
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
