package main

import (
	"context"
	"flag"

	"github.com/farxc/vendas_sync/internal/config"
	"github.com/farxc/vendas_sync/internal/db"
	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/farxc/vendas_sync/internal/store"
)

func main() {
	const component = "Main"

	configFile := flag.String("config", "", "config file (yaml, toml or json)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.New(logger.Options{Level: logger.LevelInfo}).Fatal(component, "Invalid configuration: %v", err)
	}
	appLogger := logger.New(cfg.Log.Options())

	database, err := db.New(
		context.Background(),
		cfg.Dest.Driver,
		cfg.Dest.DSN,
		cfg.Dest.MaxOpenConns,
		cfg.Dest.MaxIdleConns,
		cfg.Dest.MaxIdleTime)
	if err != nil {
		appLogger.Fatal(component, "Database connection failed: %v", err)
	}
	defer database.Close()
	appLogger.Info(component, "Database connection pool established")

	app := &application{
		addr:      cfg.API.Addr,
		store:     *store.NewStorage(database),
		appLogger: appLogger,
	}

	mux := app.mount()

	if err := app.run(mux); err != nil {
		appLogger.Fatal(component, "Server stopped: %v", err)
	}
}
