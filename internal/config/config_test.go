package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, int64(100), cfg.Ledger.BaseFee)
	require.Equal(t, int64(5_000_000), cfg.Ledger.BaseReserve)
	require.Equal(t, "pebble", cfg.Database.Type)
	require.False(t, cfg.History.Enabled)
	require.Equal(t, 1000, cfg.Exchange.MaxOffersToCross)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stellard.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ledger]
base_fee = 250

[database]
type = "memory"

[exchange]
max_offers_to_cross = 50
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, int64(250), cfg.Ledger.BaseFee)
	require.Equal(t, "memory", cfg.Database.Type)
	require.Equal(t, 50, cfg.Exchange.MaxOffersToCross)
	// Untouched values keep their defaults.
	require.Equal(t, int64(5_000_000), cfg.Ledger.BaseReserve)
	require.Equal(t, path, cfg.GetConfigPath())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("STELLARD_LEDGER_BASE_FEE", "999")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, int64(999), cfg.Ledger.BaseFee)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Ledger:   LedgerConfig{BaseFee: 100, BaseReserve: 5_000_000},
			Database: DatabaseConfig{Type: "memory"},
			Exchange: ExchangeConfig{MaxOffersToCross: 10},
		}
	}

	require.NoError(t, ValidateConfig(base()))

	cfg := base()
	cfg.Ledger.BaseFee = 0
	require.Error(t, ValidateConfig(cfg))

	cfg = base()
	cfg.Database.Type = "pebble" // no path
	require.Error(t, ValidateConfig(cfg))

	cfg = base()
	cfg.Database.Type = "cassandra"
	require.Error(t, ValidateConfig(cfg))

	cfg = base()
	cfg.History.Enabled = true
	require.Error(t, ValidateConfig(cfg))
}

func TestSaveExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.toml")
	require.NoError(t, SaveExampleConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "pebble", cfg.Database.Type)
	require.Equal(t, "/var/lib/stellard/db", cfg.Database.Path)
}
