package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goStellard/internal/core/ledger/ltx"
	"github.com/LeJamon/goStellard/internal/storage"
)

var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Scan the ledger database and report entry counts",
	Long: `db-check walks every entry in the configured key/value backend,
verifies that each one decodes and that offers are well formed, and prints
per-kind counts. A non-zero exit means the database is corrupt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := storage.OpenKV(cfg.Database.Type, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		store, err := ltx.NewStore(db)
		if err != nil {
			return err
		}
		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("database check failed: %w", err)
		}
		if !stats.HasHeader {
			return fmt.Errorf("database has no ledger header; run 'stellard init' first")
		}

		fmt.Printf("accounts:   %d\n", stats.Accounts)
		fmt.Printf("trustlines: %d\n", stats.TrustLines)
		fmt.Printf("offers:     %d\n", stats.Offers)
		return nil
	},
}
