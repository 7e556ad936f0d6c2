package main

import (
	"context"
	"fmt"

	"github.com/farxc/vendas_sync/internal/config"
	"github.com/farxc/vendas_sync/internal/db"
	"github.com/farxc/vendas_sync/internal/lock"
	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/farxc/vendas_sync/internal/posync"
	"github.com/farxc/vendas_sync/internal/source"
	"github.com/farxc/vendas_sync/internal/store"
)

// app holds the wiring shared by the sync commands. Pools open lazily, so
// building an app never touches a database.
type app struct {
	sourcePool *db.Pool
	destPool   *db.Pool
	redis      *lock.Redis

	source   source.Source
	dest     store.Destination
	locker   lock.Locker
	recorder *posync.Recorder
	loop     *posync.Loop
}

func poolOptions(c config.DBConfig) db.Options {
	return db.Options{
		Driver:       c.Driver,
		Addr:         c.DSN,
		MaxOpenConns: c.MaxOpenConns,
		MaxIdleConns: c.MaxIdleConns,
		MaxIdleTime:  c.MaxIdleTime,
	}
}

func newApp(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*app, error) {
	const component = "Main"
	a := &app{}

	if cfg.Source.Driver == "csv" {
		a.source = source.NewCSV(cfg.Source.DSN)
	} else {
		a.sourcePool = db.NewPool("source", poolOptions(cfg.Source))
		a.source = source.NewSQL(a.sourcePool)
	}

	a.destPool = db.NewPool("destination", poolOptions(cfg.Dest))
	a.dest = store.NewSQLDestination(a.destPool)

	if cfg.Lock.RedisAddr != "" {
		redisLock, err := lock.NewRedis(ctx, lock.RedisOptions{
			Addr:     cfg.Lock.RedisAddr,
			Password: cfg.Lock.RedisPassword,
			DB:       cfg.Lock.RedisDB,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		a.redis = redisLock
		a.locker = redisLock
		appLogger.Info(component, "Batch lock: redis addr=%s ttl=%s", cfg.Lock.RedisAddr, cfg.Lock.TTL)
	} else {
		a.locker = lock.NewLocal()
		appLogger.Info(component, "Batch lock: in-process")
	}

	syncer := posync.NewSyncer(a.source, a.dest, appLogger, posync.WindowDays(
		cfg.Sync.OrderWindowDays,
		cfg.Sync.ExpenseWindowDays,
		cfg.Sync.CashWindowDays,
	))
	a.recorder = posync.NewRecorder(a.dest)
	orchestrator := posync.NewOrchestrator(syncer.Tasks(), a.recorder, appLogger)
	a.loop = posync.NewLoop(orchestrator, a.recorder, a.locker, posync.LoopConfig{
		Interval: cfg.Sync.Interval,
		LockTTL:  cfg.Lock.TTL,
	}, appLogger)

	appLogger.Info(component, "Sync configured: source=%s interval=%s", cfg.Source.Driver, cfg.Sync.Interval)
	return a, nil
}

func (a *app) close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.sourcePool != nil {
		keep(a.sourcePool.Close())
	}
	if a.destPool != nil {
		keep(a.destPool.Close())
	}
	if a.redis != nil {
		keep(a.redis.Close())
	}
	if firstErr != nil {
		return fmt.Errorf("failed to close: %w", firstErr)
	}
	return nil
}
