package posync

import (
	"context"
	"fmt"
	"time"

	"github.com/farxc/vendas_sync/internal/store"
)

const (
	messageBatchStarted  = "Início da sincronização"
	messageBatchFinished = "Fim da sincronização"
)

// Recorder writes the run log. Every write takes its own destination
// session so the log survives a task whose session failed.
type Recorder struct {
	dest store.Destination
	now  func() time.Time
}

func NewRecorder(dest store.Destination) *Recorder {
	return &Recorder{dest: dest, now: time.Now}
}

// Start opens the SYNC_ALL envelope of a batch.
func (r *Recorder) Start(ctx context.Context, batchID string) error {
	return r.write(ctx, func(session *store.Session) error {
		return session.SyncLog.StartJob(ctx, &store.SyncJobLog{
			BatchID:   batchID,
			JobName:   store.JobSyncAll,
			Status:    store.JobStatusOK,
			Message:   messageBatchStarted,
			StartedAt: r.now(),
		})
	})
}

// Record writes one closed task entry.
func (r *Recorder) Record(ctx context.Context, batchID, job, message string, startedAt time.Time) error {
	finishedAt := r.now()
	return r.write(ctx, func(session *store.Session) error {
		return session.SyncLog.RecordJob(ctx, &store.SyncJobLog{
			BatchID:    batchID,
			JobName:    job,
			Status:     store.JobStatusOK,
			Message:    message,
			StartedAt:  startedAt,
			FinishedAt: &finishedAt,
		})
	})
}

// Finish closes the envelope of a completed batch.
func (r *Recorder) Finish(ctx context.Context, batchID string) error {
	return r.close(ctx, batchID, store.JobStatusOK, messageBatchFinished)
}

// Fail closes the envelope of a batch that stopped on cause.
func (r *Recorder) Fail(ctx context.Context, batchID string, cause error) error {
	return r.close(ctx, batchID, store.JobStatusError, cause.Error())
}

func (r *Recorder) close(ctx context.Context, batchID, status, message string) error {
	finishedAt := r.now()
	return r.write(ctx, func(session *store.Session) error {
		return session.SyncLog.FinishJob(ctx, &store.SyncJobLog{
			BatchID:    batchID,
			JobName:    store.JobSyncAll,
			Status:     status,
			Message:    message,
			FinishedAt: &finishedAt,
		})
	})
}

func (r *Recorder) write(ctx context.Context, fn func(*store.Session) error) error {
	session, err := r.dest.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open run log session: %w", err)
	}
	defer session.Close()

	if err := fn(session); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	return nil
}
