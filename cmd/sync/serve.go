package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var monitorInterval time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a sync batch every interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		const component = "Main"

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, appLogger)
		if err != nil {
			return err
		}
		defer a.close()

		var monitor *MemoryMonitor
		if monitorInterval > 0 {
			monitor = NewMonitor()
			monitor.Start(monitorInterval, appLogger)
		}

		startedAt := time.Now()
		err = a.loop.Run(ctx)

		if monitor != nil {
			stats := monitor.Stop()
			appLogger.Info(component, "Peak usage: goroutines=%d memoryMB=%d", stats.PeakGoroutines, stats.PeakMemoryMB)
		}
		appLogger.Info(component, "Shut down after %s", time.Since(startedAt).Round(time.Second))

		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().DurationVar(&monitorInterval, "monitor", 0, "log goroutine and memory usage at this interval (0 disables)")
}
