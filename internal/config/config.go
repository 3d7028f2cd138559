// Package config loads service configuration from YAML with environment
// overrides.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tradelens/chart-image/pkg/errors"
)

// Config contains the chart image service configuration.
type Config struct {
	// Listen is the TCP address the HTTP server binds to.
	Listen string `yaml:"listen" validate:"required"`
	// Provider selects the market data source.
	Provider string `yaml:"provider" validate:"required,oneof=polygon binance"`
	// PolygonAPIKey authenticates polygon requests. Overridable via the
	// POLYGON_API_KEY environment variable.
	PolygonAPIKey string `yaml:"polygon_api_key" validate:"required_if=Provider polygon"`
	// CachePath is the DuckDB file backing the intraday bar cache. Empty
	// disables caching.
	CachePath string `yaml:"cache_path"`
}

// DefaultConfig returns a config with sensible defaults applied.
func DefaultConfig() Config {
	return Config{
		Listen:   ":8080",
		Provider: "polygon",
	}
}

// LoadConfig reads a YAML config file, applies environment overrides and
// validates the result. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
		}
	}

	if key := os.Getenv("POLYGON_API_KEY"); key != "" {
		config.PolygonAPIKey = key
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the Config struct.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return nil
}
