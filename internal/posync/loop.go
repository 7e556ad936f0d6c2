package posync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farxc/vendas_sync/internal/lock"
	"github.com/farxc/vendas_sync/internal/logger"
)

// ErrLockLost is the cancellation cause of a batch whose lease could not be
// refreshed.
var ErrLockLost = errors.New("batch lock lost")

// Runner runs one batch.
type Runner interface {
	Run(ctx context.Context) (Batch, error)
}

type LoopConfig struct {
	Interval time.Duration
	LockTTL  time.Duration
}

// Loop drives a Runner on a fixed delay until its context ends. A cycle
// starts only after the previous one returned and the delay elapsed.
type Loop struct {
	runner    Runner
	recorder  *Recorder
	locker    lock.Locker
	cfg       LoopConfig
	appLogger *logger.Logger
}

func NewLoop(runner Runner, recorder *Recorder, locker lock.Locker, cfg LoopConfig, appLogger *logger.Logger) *Loop {
	return &Loop{
		runner:    runner,
		recorder:  recorder,
		locker:    locker,
		cfg:       cfg,
		appLogger: appLogger,
	}
}

// Run returns only once ctx is done, with ctx's error. Failed cycles are
// logged and the loop carries on.
func (l *Loop) Run(ctx context.Context) error {
	const component = "Scheduler"
	l.appLogger.Info(component, "Sync loop started: interval=%s", l.cfg.Interval)

	for {
		if err := ctx.Err(); err != nil {
			l.appLogger.Info(component, "Sync loop stopped: %v", err)
			return err
		}

		err := l.RunOnce(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			l.appLogger.Info(component, "Sync loop stopped during a cycle: %v", ctx.Err())
			return ctx.Err()
		case errors.Is(err, lock.ErrNotObtained):
			l.appLogger.Warn(component, "Cycle skipped: another batch holds %s", lock.BatchKey)
		default:
			l.appLogger.Error(component, "Cycle failed: %v", err)
		}

		select {
		case <-ctx.Done():
			l.appLogger.Info(component, "Sync loop stopped: %v", ctx.Err())
			return ctx.Err()
		case <-time.After(l.cfg.Interval):
		}
	}
}

// RunOnce runs one batch under the batch lock. It returns
// lock.ErrNotObtained when another batch is in flight.
func (l *Loop) RunOnce(ctx context.Context) error {
	const component = "Scheduler"

	lease, err := l.locker.Obtain(ctx, lock.BatchKey, l.cfg.LockTTL)
	if err != nil {
		return err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			l.appLogger.Warn(component, "Failed to release batch lock: %v", err)
		}
	}()

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := l.keepAlive(runCtx, lease, cancel)
	batch, err := l.runner.Run(runCtx)
	stop()

	if err != nil {
		if ctx.Err() == nil && batch.State == BatchRunning && l.recorder != nil {
			if closeErr := l.recorder.Fail(ctx, batch.ID, err); closeErr != nil {
				l.appLogger.Error(component, "Failed to close batch envelope: batch=%s err=%v", batch.ID, closeErr)
			}
		}
		return fmt.Errorf("batch %s: %w", batch.ID, err)
	}
	return nil
}

// keepAlive refreshes the lease every half TTL while the batch runs. When a
// refresh fails the batch context is cancelled: another worker may already
// hold the key. The returned func stops the refresher and waits for it.
func (l *Loop) keepAlive(ctx context.Context, lease lock.Lease, cancel context.CancelCauseFunc) func() {
	const component = "Scheduler"

	if l.cfg.LockTTL <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(l.cfg.LockTTL / 2)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := lease.Refresh(ctx, l.cfg.LockTTL); err != nil {
					l.appLogger.Error(component, "Batch lock lost, cancelling batch: %v", err)
					cancel(fmt.Errorf("%w: %v", ErrLockLost, err))
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}
