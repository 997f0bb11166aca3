package config

import (
	"time"
)

// Config represents the complete configuration for the lakectl CLI.
// It provides type-safe access to all configuration values with validation.
type Config struct {
	Server  ServerConfig  `koanf:"server"  validate:"required"`
	Runtime RuntimeConfig `koanf:"runtime" validate:"required"`
	CLI     CLIConfig     `koanf:"cli"`
}

// ServerConfig locates the data-platform API server.
type ServerConfig struct {
	Host     string `koanf:"host"      validate:"required"`
	Port     int    `koanf:"port"      validate:"min=1,max=65535"`
	BasePath string `koanf:"base_path"`
}

// RuntimeConfig contains runtime behavior configuration.
type RuntimeConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development staging production"`
	LogLevel    string `koanf:"log_level"   validate:"oneof=debug info warn error"`
	LogJSON     bool   `koanf:"log_json"`
}

// CLIConfig contains settings for the command-line surface.
type CLIConfig struct {
	APIKey        SensitiveString `koanf:"api_key"`
	Timeout       time.Duration   `koanf:"timeout"        validate:"min=0"`
	DefaultFormat string          `koanf:"default_format" validate:"oneof=auto json tui"`
	Interactive   bool            `koanf:"interactive"`
	NoColor       bool            `koanf:"no_color"`
	PageSize      int             `koanf:"page_size"      validate:"min=1,max=100"`
}

// Default returns the built-in configuration values. Environment variables
// are applied on top of these by the loader.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "localhost",
			Port:     8080,
			BasePath: "/api",
		},
		Runtime: RuntimeConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		CLI: CLIConfig{
			Timeout:       30 * time.Second,
			DefaultFormat: "auto",
			PageSize:      10,
		},
	}
}
