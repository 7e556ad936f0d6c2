package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type SyncLogStore struct {
	db DBTX
}

// Job names written to the run log.
const (
	JobSyncAll      = "SYNC_ALL"
	JobSyncTables   = "SYNC_TABLES"
	JobSyncOrders   = "SYNC_ORDERS"
	JobSyncExpenses = "SYNC_EXPENSES"
	JobSyncCash     = "SYNC_CASH"
)

const (
	JobStatusOK    = "OK"
	JobStatusError = "ERROR"
)

// StartJob inserts an open entry. FinishedAt is ignored.
func (sl *SyncLogStore) StartJob(ctx context.Context, entry *SyncJobLog) error {
	query := `INSERT INTO sync_job_log (
		batch_id,
		job_name,
		status,
		message,
		started_at
	) VALUES (
		:batch_id,
		:job_name,
		:status,
		:message,
		:started_at
	)`

	if _, err := sqlx.NamedExecContext(ctx, sl.db, query, entry); err != nil {
		return fmt.Errorf("failed to start job %s: %w", entry.JobName, err)
	}
	return nil
}

// FinishJob closes the open entry for (batch, job). Closing an entry that is
// already finished, or that was never started, changes nothing.
func (sl *SyncLogStore) FinishJob(ctx context.Context, entry *SyncJobLog) error {
	query := `UPDATE sync_job_log SET
		status = :status,
		message = :message,
		finished_at = :finished_at
	WHERE batch_id = :batch_id
		AND job_name = :job_name
		AND finished_at IS NULL`

	if _, err := sqlx.NamedExecContext(ctx, sl.db, query, entry); err != nil {
		return fmt.Errorf("failed to finish job %s: %w", entry.JobName, err)
	}
	return nil
}

// RecordJob inserts an entry that is already closed.
func (sl *SyncLogStore) RecordJob(ctx context.Context, entry *SyncJobLog) error {
	query := `INSERT INTO sync_job_log (
		batch_id,
		job_name,
		status,
		message,
		started_at,
		finished_at
	) VALUES (
		:batch_id,
		:job_name,
		:status,
		:message,
		:started_at,
		:finished_at
	)`

	if _, err := sqlx.NamedExecContext(ctx, sl.db, query, entry); err != nil {
		return fmt.Errorf("failed to record job %s: %w", entry.JobName, err)
	}
	return nil
}

const selectSyncLogColumns = `
		id,
		batch_id,
		job_name,
		status,
		message,
		started_at,
		finished_at`

// GetLatestRuns returns the newest entries first, optionally restricted to jobs.
func (sl *SyncLogStore) GetLatestRuns(ctx context.Context, jobs []string, limit int) ([]SyncJobLog, error) {
	var (
		entries []SyncJobLog
		err     error
	)

	if len(jobs) > 0 {
		query := `SELECT` + selectSyncLogColumns + `
	FROM sync_job_log
	WHERE job_name = ANY($1)
	ORDER BY started_at DESC, id DESC
	LIMIT $2`
		err = sqlx.SelectContext(ctx, sl.db, &entries, query, pq.Array(jobs), limit)
	} else {
		query := `SELECT` + selectSyncLogColumns + `
	FROM sync_job_log
	ORDER BY started_at DESC, id DESC
	LIMIT $1`
		err = sqlx.SelectContext(ctx, sl.db, &entries, query, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	return entries, nil
}

// GetBatch returns every entry of one batch in write order.
func (sl *SyncLogStore) GetBatch(ctx context.Context, batchID string) ([]SyncJobLog, error) {
	query := `SELECT` + selectSyncLogColumns + `
	FROM sync_job_log
	WHERE batch_id = $1
	ORDER BY id`

	var entries []SyncJobLog
	if err := sqlx.SelectContext(ctx, sl.db, &entries, query, batchID); err != nil {
		return nil, fmt.Errorf("failed to query batch %s: %w", batchID, err)
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries, nil
}
