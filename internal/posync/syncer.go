package posync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/farxc/vendas_sync/internal/source"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/shopspring/decimal"
)

// Windows bound how far back each windowed task reads.
type Windows struct {
	Orders   time.Duration
	Expenses time.Duration
	Cash     time.Duration
}

func DefaultWindows() Windows {
	return Windows{
		Orders:   7 * 24 * time.Hour,
		Expenses: 30 * 24 * time.Hour,
		Cash:     30 * 24 * time.Hour,
	}
}

// WindowDays builds Windows from whole days.
func WindowDays(orders, expenses, cash int) Windows {
	day := 24 * time.Hour
	return Windows{
		Orders:   time.Duration(orders) * day,
		Expenses: time.Duration(expenses) * day,
		Cash:     time.Duration(cash) * day,
	}
}

// Syncer runs the four sync tasks. Every task opens its own source reader
// and destination session and releases both before returning.
type Syncer struct {
	source    source.Source
	dest      store.Destination
	appLogger *logger.Logger
	windows   Windows
	now       func() time.Time
}

func NewSyncer(src source.Source, dest store.Destination, appLogger *logger.Logger, windows Windows) *Syncer {
	return &Syncer{
		source:    src,
		dest:      dest,
		appLogger: appLogger,
		windows:   windows,
		now:       time.Now,
	}
}

// Tasks returns the sync tasks in the order a batch runs them.
func (s *Syncer) Tasks() []Task {
	return []Task{
		{Job: store.JobSyncTables, Message: "Tables upserted: %d", Run: s.SyncTables},
		{Job: store.JobSyncOrders, Message: "Orders synced: %d", Run: s.SyncOrders},
		{Job: store.JobSyncExpenses, Message: "Expenses upserted: %d", Run: s.SyncExpenses},
		{Job: store.JobSyncCash, Message: "Cash movements upserted: %d", Run: s.SyncCashMovements},
	}
}

// open acquires both ends of one task. release must be called even when
// the task fails.
func (s *Syncer) open(ctx context.Context) (source.Reader, *store.Session, func(), error) {
	const component = "Syncer"

	reader, err := s.source.Open(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open source: %w", err)
	}

	session, err := s.dest.Open(ctx)
	if err != nil {
		reader.Close()
		return nil, nil, nil, fmt.Errorf("failed to open destination: %w", err)
	}

	release := func() {
		if err := session.Close(); err != nil {
			s.appLogger.Warn(component, "Failed to release destination session: %v", err)
		}
		if err := reader.Close(); err != nil {
			s.appLogger.Warn(component, "Failed to release source reader: %v", err)
		}
	}
	return reader, session, release, nil
}

func (s *Syncer) since(window time.Duration) time.Time {
	return s.now().Add(-window)
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func orZero(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
