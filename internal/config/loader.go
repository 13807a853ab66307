package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration in priority order: defaults, then the TOML
// file at configPath (optional, empty path skips it), then STELLARD_
// environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvPrefix("STELLARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.configPath = configPath

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// SaveExampleConfig writes a commented-out starting point to configPath.
func SaveExampleConfig(configPath string) error {
	v := viper.New()
	for key, value := range exampleConfig() {
		v.Set(key, value)
	}
	v.SetConfigFile(configPath)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}

func exampleConfig() map[string]interface{} {
	return map[string]interface{}{
		"ledger.base_fee":     100,
		"ledger.base_reserve": 5_000_000,

		"database.type": "pebble",
		"database.path": "/var/lib/stellard/db",

		"history.enabled":      false,
		"history.postgres_dsn": "postgres://stellard@localhost/stellard?sslmode=disable",

		"exchange.max_offers_to_cross": 1000,
	}
}
