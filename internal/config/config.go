// Package config loads stellard configuration from defaults, a TOML file,
// and STELLARD_-prefixed environment variables, in that priority order.
package config

import "github.com/LeJamon/goStellard/internal/core/ledger"

// Config is the full stellard configuration.
type Config struct {
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Database DatabaseConfig `mapstructure:"database"`
	History  HistoryConfig  `mapstructure:"history"`
	Exchange ExchangeConfig `mapstructure:"exchange"`

	configPath string
}

// LedgerConfig seeds the genesis header.
type LedgerConfig struct {
	// BaseFee is the minimum transaction fee in base units.
	BaseFee int64 `mapstructure:"base_fee"`
	// BaseReserve is the per-reserve-step native amount in base units.
	BaseReserve int64 `mapstructure:"base_reserve"`
}

// DatabaseConfig selects the key/value backend holding ledger state.
type DatabaseConfig struct {
	// Type is one of "memory", "pebble", "leveldb".
	Type string `mapstructure:"type"`
	// Path is the backend's on-disk root; ignored by the memory backend.
	Path string `mapstructure:"path"`
}

// HistoryConfig controls the Postgres trade history sink.
type HistoryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// ExchangeConfig carries exchange engine policy.
type ExchangeConfig struct {
	// MaxOffersToCross bounds offers crossed per operation; 0 is unbounded.
	MaxOffersToCross int `mapstructure:"max_offers_to_cross"`
}

// GetConfigPath returns the path the config was loaded from, empty when it
// came from defaults alone.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GenesisHeader builds the header InitHeader writes for a fresh database.
func (c *Config) GenesisHeader() *ledger.Header {
	return &ledger.Header{
		LedgerSeq:   1,
		BaseFee:     c.Ledger.BaseFee,
		BaseReserve: c.Ledger.BaseReserve,
	}
}
