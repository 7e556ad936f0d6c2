package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/farxc/vendas_sync/internal/db"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/spf13/cobra"
)

var (
	runsLimit int
	runsBatch string
	runsJobs  []string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent run log entries",
	Long: `Show recent run log entries, newest first.

Examples:
  vendas-sync runs --limit 20
  vendas-sync runs --job SYNC_ALL
  vendas-sync runs --batch 0b7c6f9e-1d2a-4c55-9a0e-5f3d2b8a7c11`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool := db.NewPool("destination", poolOptions(cfg.Dest))
		defer pool.Close()

		session, err := store.NewSQLDestination(pool).Open(ctx)
		if err != nil {
			return err
		}
		defer session.Close()

		var entries []store.SyncJobLog
		if runsBatch != "" {
			entries, err = session.SyncLog.GetBatch(ctx, runsBatch)
		} else {
			entries, err = session.SyncLog.GetLatestRuns(ctx, runsJobs, runsLimit)
		}
		if err != nil {
			return err
		}
		return printRuns(cmd.OutOrStdout(), entries)
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "number of entries")
	runsCmd.Flags().StringVar(&runsBatch, "batch", "", "show every entry of one batch")
	runsCmd.Flags().StringSliceVar(&runsJobs, "job", nil, "only these job names")
}

func printRuns(w io.Writer, entries []store.SyncJobLog) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BATCH\tJOB\tSTATUS\tSTARTED\tFINISHED\tMESSAGE")
	for _, e := range entries {
		finished := "-"
		if e.FinishedAt != nil {
			finished = e.FinishedAt.Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.BatchID, e.JobName, e.Status, e.StartedAt.Format(time.DateTime), finished, e.Message)
	}
	return tw.Flush()
}
