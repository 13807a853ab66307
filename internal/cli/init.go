package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goStellard/internal/core/ledger/ltx"
	"github.com/LeJamon/goStellard/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the ledger database and write the genesis header",
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
		if _, err := ltx.Begin(store).Header(); err == nil {
			return errors.New("database is already initialized")
		} else if !errors.Is(err, ltx.ErrNoHeader) {
			return err
		}
		if err := store.InitHeader(cfg.GenesisHeader()); err != nil {
			return err
		}
		fmt.Printf("initialized %s database at %s\n", cfg.Database.Type, cfg.Database.Path)
		return nil
	},
}
