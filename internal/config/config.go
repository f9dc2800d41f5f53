// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/abaelde/structure-application/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Calculation contains calculation defaults
	Calculation CalculationConfig `json:"calculation"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Store contains run store configuration
	Store StoreConfig `json:"store"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// CalculationConfig contains calculation defaults
type CalculationConfig struct {
	// DefaultCalculationDate is used when no date is supplied (YYYY-MM-DD,
	// empty = today)
	DefaultCalculationDate string `json:"default_calculation_date"`

	// DecimalPlaces is the rounding applied to displayed amounts
	DecimalPlaces int32 `json:"decimal_places"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (table, json, csv)
	DefaultFormat string `json:"default_format"`

	// ShowDetails shows the per-structure audit trail
	ShowDetails bool `json:"show_details"`
}

// StoreConfig contains run store settings
type StoreConfig struct {
	// Enabled persists run results to the store
	Enabled bool `json:"enabled"`

	// DatabasePath is the path to the SQLite run store
	DatabasePath string `json:"database_path"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// AllowedOrigins configures CORS for browser clients
	AllowedOrigins []string `json:"allowed_origins"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".structure-application", "runs.db")

	return &Config{
		Version: "1.0",
		Calculation: CalculationConfig{
			DefaultCalculationDate: "",
			DecimalPlaces:          2,
		},
		Output: OutputConfig{
			DefaultFormat: "table",
			ShowDetails:   true,
		},
		Store: StoreConfig{
			Enabled:      false,
			DatabasePath: dbPath,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
