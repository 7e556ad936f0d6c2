package main

import (
	"net/http"
	"time"

	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type application struct {
	addr      string
	store     store.Storage
	appLogger *logger.Logger
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Set a timeout value on the request context (ctx), that will signal
	// through ctx.Done() that the request has timed out and further
	// processing should be stopped.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.Route("/sync/runs", func(r chi.Router) {
			r.Get("/", app.handleGetSyncRuns)
			r.Get("/{batchID}", app.handleGetSyncBatch)
		})
		r.Get("/tables", app.handleGetTables)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", app.handleGetOrders)
			r.Get("/{orderID}", app.handleGetOrder)
		})
		r.Get("/expenses", app.handleGetExpenses)
		r.Get("/cash-movements", app.handleGetCashMovements)
	})

	return r
}

func (app *application) run(mux http.Handler) error {
	const component = "API"

	srv := &http.Server{
		Addr:         app.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 120,
		ReadTimeout:  time.Second * 40,
		IdleTimeout:  time.Minute,
	}

	app.appLogger.Info(component, "Server started on %s", app.addr)
	return srv.ListenAndServe()
}
