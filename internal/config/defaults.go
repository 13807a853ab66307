package config

import "github.com/spf13/viper"

// setDefaults installs the baseline configuration. Amounts are base units
// with seven implied decimals.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ledger.base_fee", 100)
	v.SetDefault("ledger.base_reserve", 5_000_000)

	v.SetDefault("database.type", "pebble")
	v.SetDefault("database.path", "stellard-data")

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.postgres_dsn", "")

	v.SetDefault("exchange.max_offers_to_cross", 1000)
}
