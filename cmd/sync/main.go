package main

import (
	"fmt"
	"os"

	"github.com/farxc/vendas_sync/internal/config"
	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string

	cfg       *config.Config
	appLogger *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vendas-sync",
	Short: "Copy point-of-sale data into the reporting store",
	Long: `vendas-sync reads tables, open tabs, expenses and cash register shifts
from the point-of-sale database and upserts them into the reporting
Postgres database, keeping a run log of every batch.

Configuration comes from the environment (and a .env file), optionally
overridden by a config file given with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg = loaded
		appLogger = logger.New(cfg.Log.Options())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd, onceCmd, migrateCmd, runsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
