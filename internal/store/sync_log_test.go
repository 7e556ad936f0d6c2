package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var syncLogColumns = []string{"id", "batch_id", "job_name", "status", "message", "started_at", "finished_at"}

func TestSyncLogStore_StartAndFinish(t *testing.T) {
	storage, _, mock := newMockStorage(t)
	started := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	finished := started.Add(4 * time.Second)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_job_log ( batch_id, job_name, status, message, started_at ) VALUES ( $1, $2, $3, $4, $5 )")).
		WithArgs("b-1", JobSyncAll, JobStatusOK, "Início da sincronização", started).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sync_job_log SET status = $1, message = $2, finished_at = $3 WHERE batch_id = $4 AND job_name = $5 AND finished_at IS NULL")).
		WithArgs(JobStatusOK, "Fim da sincronização", finished, "b-1", JobSyncAll).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, storage.SyncLog.StartJob(ctx, &SyncJobLog{
		BatchID:   "b-1",
		JobName:   JobSyncAll,
		Status:    JobStatusOK,
		Message:   "Início da sincronização",
		StartedAt: started,
	}))
	require.NoError(t, storage.SyncLog.FinishJob(ctx, &SyncJobLog{
		BatchID:    "b-1",
		JobName:    JobSyncAll,
		Status:     JobStatusOK,
		Message:    "Fim da sincronização",
		FinishedAt: &finished,
	}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncLogStore_RecordJobCarriesBothTimestamps(t *testing.T) {
	storage, _, mock := newMockStorage(t)
	at := time.Date(2026, 3, 14, 10, 0, 1, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sync_job_log ( batch_id, job_name, status, message, started_at, finished_at )")).
		WithArgs("b-1", JobSyncOrders, JobStatusOK, "Orders synced: 3", at, at).
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := storage.SyncLog.RecordJob(context.Background(), &SyncJobLog{
		BatchID:    "b-1",
		JobName:    JobSyncOrders,
		Status:     JobStatusOK,
		Message:    "Orders synced: 3",
		StartedAt:  at,
		FinishedAt: &at,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncLogStore_GetLatestRuns(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("all jobs", func(t *testing.T) {
		storage, _, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM sync_job_log ORDER BY started_at DESC, id DESC LIMIT $1")).
			WithArgs(10).
			WillReturnRows(sqlmock.NewRows(syncLogColumns).
				AddRow(2, "b-1", JobSyncTables, JobStatusOK, "Tables upserted: 4", at, at).
				AddRow(1, "b-1", JobSyncAll, JobStatusOK, "Início da sincronização", at, nil))

		runs, err := storage.SyncLog.GetLatestRuns(context.Background(), nil, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.NotNil(t, runs[0].FinishedAt)
		assert.Nil(t, runs[1].FinishedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filtered by job", func(t *testing.T) {
		storage, _, mock := newMockStorage(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE job_name = ANY($1)")).
			WithArgs(sqlmock.AnyArg(), 5).
			WillReturnRows(sqlmock.NewRows(syncLogColumns).
				AddRow(3, "b-1", JobSyncCash, JobStatusOK, "Cash movements upserted: 2", at, at))

		runs, err := storage.SyncLog.GetLatestRuns(context.Background(), []string{JobSyncCash}, 5)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, JobSyncCash, runs[0].JobName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSyncLogStore_GetBatchNotFound(t *testing.T) {
	storage, _, mock := newMockStorage(t)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE batch_id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(syncLogColumns))

	_, err := storage.SyncLog.GetBatch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
