package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const configFileName = "rota_config.yaml"

// Scheduling holds the rule limits the validation engine runs with
type Scheduling struct {
	// WeeklyHourLimit is the maximum scheduled hours per carer per
	// Monday-start week
	WeeklyHourLimit float64 `yaml:"weeklyHourLimit" validate:"gt=0"`

	// RestPeriodHours is the minimum rest between a night shift and a
	// following day shift
	RestPeriodHours float64 `yaml:"restPeriodHours" validate:"gt=0"`

	// AvailabilityConcurrency caps parallel carer evaluations when
	// resolving an availability pool
	AvailabilityConcurrency int `yaml:"availabilityConcurrency" validate:"min=1"`
}

// Config represents the application configuration
type Config struct {
	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string `yaml:"databaseURL" validate:"required"`

	Scheduling Scheduling `yaml:"scheduling"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// defaults returns a Config with every tunable at its default
func defaults() Config {
	return Config{
		Scheduling: Scheduling{
			WeeklyHourLimit:         36,
			RestPeriodHours:         48,
			AvailabilityConcurrency: 8,
		},
	}
}

// Load loads and validates the configuration from rota_config.yaml,
// looking in the current directory first and then the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for rota_config.yaml in the current directory and
// the home directory
func findConfigFile() (string, error) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or %s", configFileName, homeDir)
}
