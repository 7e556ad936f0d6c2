package posync

import (
	"context"
	"fmt"
	"time"

	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Task is one step of a batch. Message formats the count Run returns into
// the task's run log entry.
type Task struct {
	Job     string
	Message string
	Run     func(ctx context.Context) (int, error)
}

type BatchState int

const (
	BatchNotStarted BatchState = iota
	BatchRunning
	BatchCompleted
)

var batchStateNames = map[BatchState]string{
	BatchNotStarted: "NOT_STARTED",
	BatchRunning:    "RUNNING",
	BatchCompleted:  "COMPLETED",
}

func (s BatchState) String() string {
	return batchStateNames[s]
}

type TaskResult struct {
	Job      string
	Count    int
	Duration time.Duration
}

// Batch reports one orchestrator run. A batch that failed after its
// envelope was opened is left RUNNING with ID set.
type Batch struct {
	ID      string
	State   BatchState
	Results []TaskResult
}

// Orchestrator runs the tasks of one batch sequentially between the start
// and finish envelope entries. It does not recover from task errors.
type Orchestrator struct {
	tasks      []Task
	recorder   *Recorder
	appLogger  *logger.Logger
	newBatchID func() string
	now        func() time.Time
}

func NewOrchestrator(tasks []Task, recorder *Recorder, appLogger *logger.Logger) *Orchestrator {
	return &Orchestrator{
		tasks:      tasks,
		recorder:   recorder,
		appLogger:  appLogger,
		newBatchID: uuid.NewString,
		now:        time.Now,
	}
}

func (o *Orchestrator) Run(ctx context.Context) (Batch, error) {
	const component = "Orchestrator"

	batch := Batch{ID: o.newBatchID(), State: BatchNotStarted}
	if err := o.recorder.Start(ctx, batch.ID); err != nil {
		return batch, err
	}
	batch.State = BatchRunning
	o.appLogger.WithFields(component, logrus.Fields{
		"batch_id": batch.ID,
		"tasks":    len(o.tasks),
	}).Info("Batch started")

	for _, task := range o.tasks {
		startedAt := o.now()
		count, err := task.Run(ctx)
		if err != nil {
			return batch, fmt.Errorf("%s: %w", task.Job, err)
		}

		if err := o.recorder.Record(ctx, batch.ID, task.Job, fmt.Sprintf(task.Message, count), startedAt); err != nil {
			return batch, err
		}

		result := TaskResult{Job: task.Job, Count: count, Duration: o.now().Sub(startedAt)}
		batch.Results = append(batch.Results, result)
		o.appLogger.WithFields(component, logrus.Fields{
			"batch_id": batch.ID,
			"job":      task.Job,
			"count":    count,
			"duration": result.Duration.String(),
		}).Info("Task done")
	}

	if err := o.recorder.Finish(ctx, batch.ID); err != nil {
		return batch, err
	}
	batch.State = BatchCompleted
	o.appLogger.WithFields(component, logrus.Fields{
		"batch_id": batch.ID,
		"tasks":    len(batch.Results),
	}).Info("Batch finished")
	return batch, nil
}
