package main

import (
	"github.com/farxc/vendas_sync/internal/db"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the reporting tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		const component = "Migrate"

		pool := db.NewPool("destination", poolOptions(cfg.Dest))
		defer pool.Close()

		database, err := pool.DB(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.Migrate(cmd.Context(), database); err != nil {
			return err
		}
		appLogger.Info(component, "Reporting schema is up to date")
		return nil
	},
}
