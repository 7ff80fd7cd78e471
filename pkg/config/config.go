package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds client-wide configuration
type Config struct {
	// BaseURL is the project API root, eg https://project.example.com
	BaseURL string `mapstructure:"baseURL"`
	// AnonKey is the published low-privilege key, sent as the identity header.
	AnonKey string `mapstructure:"anonKey"`
	// ServiceKey is the elevated key for privileged clients; optional.
	ServiceKey string `mapstructure:"serviceKey"`
	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxRetries enables transport retries when > 0.
	MaxRetries int           `mapstructure:"maxRetries"`
	Metrics    MetricsConfig `mapstructure:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

func Default() Config {
	return Config{
		Timeout: 10 * time.Second,
		Metrics: MetricsConfig{
			Addr: ":9100",
		},
	}
}

// Load reads config from file or environment
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pgclient")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PGCLIENT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// env fallbacks for the common pair
	if cfg.BaseURL == "" {
		cfg.BaseURL = v.GetString("baseURL")
	}
	if cfg.AnonKey == "" {
		cfg.AnonKey = v.GetString("anonKey")
	}

	return &cfg, nil
}

// Validate reports whether the config can construct a client.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("baseURL is required")
	}
	if c.AnonKey == "" {
		return fmt.Errorf("anonKey is required")
	}
	return nil
}
