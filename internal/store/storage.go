package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("record not found")

// DBTX is satisfied by *sqlx.DB and by a session connection.
type DBTX interface {
	sqlx.ExtContext
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type Storage struct {
	TableStatus interface {
		UpsertTableStatus(ctx context.Context, table *TableStatus) error
		GetTableStatuses(ctx context.Context) ([]TableStatus, error)
	}

	Orders interface {
		UpsertOrder(ctx context.Context, order *Order, items []OrderItem) error
		GetOrders(ctx context.Context, filter OrderFilter) ([]Order, error)
		GetOrder(ctx context.Context, orderID string) (*Order, error)
	}

	Expenses interface {
		UpsertExpense(ctx context.Context, expense *Expense) error
		GetExpenses(ctx context.Context, since time.Time) ([]Expense, error)
	}

	CashMovements interface {
		UpsertCashMovement(ctx context.Context, movement *CashMovement) error
		GetCashMovements(ctx context.Context, since time.Time) ([]CashMovement, error)
	}

	SyncLog interface {
		StartJob(ctx context.Context, entry *SyncJobLog) error
		FinishJob(ctx context.Context, entry *SyncJobLog) error
		RecordJob(ctx context.Context, entry *SyncJobLog) error
		GetLatestRuns(ctx context.Context, jobs []string, limit int) ([]SyncJobLog, error)
		GetBatch(ctx context.Context, batchID string) ([]SyncJobLog, error)
	}
}

func NewStorage(db DBTX) *Storage {
	return &Storage{
		TableStatus:   &TableStatusStore{db: db},
		Orders:        &OrderStore{db: db},
		Expenses:      &ExpenseStore{db: db},
		CashMovements: &CashMovementStore{db: db},
		SyncLog:       &SyncLogStore{db: db},
	}
}
