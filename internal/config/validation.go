package config

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goStellard/internal/storage"
)

// ValidateConfig rejects configurations the daemon could not run with.
func ValidateConfig(cfg *Config) error {
	var errs []error

	if cfg.Ledger.BaseFee <= 0 {
		errs = append(errs, fmt.Errorf("ledger.base_fee must be positive, got %d", cfg.Ledger.BaseFee))
	}
	if cfg.Ledger.BaseReserve < 0 {
		errs = append(errs, fmt.Errorf("ledger.base_reserve must not be negative, got %d", cfg.Ledger.BaseReserve))
	}

	switch cfg.Database.Type {
	case storage.BackendMemory:
	case storage.BackendPebble, storage.BackendLevelDB:
		if cfg.Database.Path == "" {
			errs = append(errs, fmt.Errorf("database.path is required for the %s backend", cfg.Database.Type))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.type %q", cfg.Database.Type))
	}

	if cfg.History.Enabled && cfg.History.PostgresDSN == "" {
		errs = append(errs, errors.New("history.postgres_dsn is required when history.enabled is set"))
	}

	if cfg.Exchange.MaxOffersToCross < 0 {
		errs = append(errs, fmt.Errorf("exchange.max_offers_to_cross must not be negative, got %d", cfg.Exchange.MaxOffersToCross))
	}

	return errors.Join(errs...)
}
