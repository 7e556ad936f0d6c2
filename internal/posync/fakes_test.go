package posync

import (
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/farxc/vendas_sync/internal/source"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Level: logger.LevelError, Output: io.Discard})
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// fakeSource serves fixed rows and records the cutoffs it was asked for.
type fakeSource struct {
	mu       sync.Mutex
	tables   []source.TableRow
	lines    []source.OrderLine
	expenses []source.ExpenseRow
	shifts   []source.ShiftRow
	readErr  error
	openErr  error
	sinces   map[string]time.Time
	opened   int
	closed   int
}

func (f *fakeSource) Open(ctx context.Context) (source.Reader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return &fakeReader{src: f}, nil
}

func (f *fakeSource) record(read string, since time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sinces == nil {
		f.sinces = make(map[string]time.Time)
	}
	f.sinces[read] = since
}

type fakeReader struct {
	src *fakeSource
}

func (r *fakeReader) Tables(ctx context.Context) ([]source.TableRow, error) {
	return r.src.tables, r.src.readErr
}

func (r *fakeReader) OrderLines(ctx context.Context, since time.Time) ([]source.OrderLine, error) {
	r.src.record("orders", since)
	return r.src.lines, r.src.readErr
}

func (r *fakeReader) Expenses(ctx context.Context, since time.Time) ([]source.ExpenseRow, error) {
	r.src.record("expenses", since)
	return r.src.expenses, r.src.readErr
}

func (r *fakeReader) Shifts(ctx context.Context, since time.Time) ([]source.ShiftRow, error) {
	r.src.record("cash", since)
	return r.src.shifts, r.src.readErr
}

func (r *fakeReader) Close() error {
	r.src.mu.Lock()
	defer r.src.mu.Unlock()
	r.src.closed++
	return nil
}

// memDest is a destination kept in maps. Upserts replace by key, order
// items are replaced per order.
type memDest struct {
	mu       sync.Mutex
	tables   map[string]store.TableStatus
	orders   map[string]store.Order
	items    map[string][]store.OrderItem
	expenses map[string]store.Expense
	cash     map[string]store.CashMovement
	logs     []store.SyncJobLog
	nextItem int64

	orderErr error
	logErr   error
	openErr  error
	opened   int
	closed   int
}

func newMemDest() *memDest {
	return &memDest{
		tables:   make(map[string]store.TableStatus),
		orders:   make(map[string]store.Order),
		items:    make(map[string][]store.OrderItem),
		expenses: make(map[string]store.Expense),
		cash:     make(map[string]store.CashMovement),
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (d *memDest) Open(ctx context.Context) (*store.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opened++

	storage := &store.Storage{
		TableStatus:   memTables{d},
		Orders:        memOrders{d},
		Expenses:      memExpenses{d},
		CashMovements: memCash{d},
		SyncLog:       memSyncLog{d},
	}
	return store.NewSession(storage, closerFunc(func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.closed++
		return nil
	})), nil
}

func (d *memDest) balanced(t *testing.T) {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.Equal(t, d.opened, d.closed, "every destination session must be released")
}

func (d *memDest) jobs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]string, 0, len(d.logs))
	for _, l := range d.logs {
		names = append(names, l.JobName)
	}
	return names
}

func (d *memDest) envelope(batchID string) (store.SyncJobLog, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.logs {
		if l.BatchID == batchID && l.JobName == store.JobSyncAll {
			return l, true
		}
	}
	return store.SyncJobLog{}, false
}

type memTables struct{ d *memDest }

func (m memTables) UpsertTableStatus(ctx context.Context, table *store.TableStatus) error {
	if table.TableID == "" {
		return store.ErrEmptyKey
	}
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	m.d.tables[table.TableID] = *table
	return nil
}

func (m memTables) GetTableStatuses(ctx context.Context) ([]store.TableStatus, error) {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	out := make([]store.TableStatus, 0, len(m.d.tables))
	for _, t := range m.d.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableID < out[j].TableID })
	return out, nil
}

type memOrders struct{ d *memDest }

func (m memOrders) UpsertOrder(ctx context.Context, order *store.Order, items []store.OrderItem) error {
	if order.OrderID == "" {
		return store.ErrEmptyKey
	}
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	if m.d.orderErr != nil {
		return m.d.orderErr
	}

	m.d.orders[order.OrderID] = *order
	replaced := make([]store.OrderItem, 0, len(items))
	for _, item := range items {
		m.d.nextItem++
		item.ID = m.d.nextItem
		item.OrderID = order.OrderID
		replaced = append(replaced, item)
	}
	m.d.items[order.OrderID] = replaced
	return nil
}

func (m memOrders) GetOrders(ctx context.Context, filter store.OrderFilter) ([]store.Order, error) {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	var out []store.Order
	for _, o := range m.d.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m memOrders) GetOrder(ctx context.Context, orderID string) (*store.Order, error) {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	o, ok := m.d.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.Items = m.d.items[orderID]
	return &o, nil
}

type memExpenses struct{ d *memDest }

func (m memExpenses) UpsertExpense(ctx context.Context, expense *store.Expense) error {
	if expense.ExpenseID == "" {
		return store.ErrEmptyKey
	}
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	m.d.expenses[expense.ExpenseID] = *expense
	return nil
}

func (m memExpenses) GetExpenses(ctx context.Context, since time.Time) ([]store.Expense, error) {
	return nil, nil
}

type memCash struct{ d *memDest }

func (m memCash) UpsertCashMovement(ctx context.Context, movement *store.CashMovement) error {
	if movement.MovementID == "" {
		return store.ErrEmptyKey
	}
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	m.d.cash[movement.MovementID] = *movement
	return nil
}

func (m memCash) GetCashMovements(ctx context.Context, since time.Time) ([]store.CashMovement, error) {
	return nil, nil
}

type memSyncLog struct{ d *memDest }

func (m memSyncLog) StartJob(ctx context.Context, entry *store.SyncJobLog) error {
	return m.append(*entry, nil)
}

func (m memSyncLog) RecordJob(ctx context.Context, entry *store.SyncJobLog) error {
	return m.append(*entry, entry.FinishedAt)
}

func (m memSyncLog) append(entry store.SyncJobLog, finishedAt *time.Time) error {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	if m.d.logErr != nil {
		return m.d.logErr
	}
	entry.ID = int64(len(m.d.logs) + 1)
	entry.FinishedAt = finishedAt
	m.d.logs = append(m.d.logs, entry)
	return nil
}

func (m memSyncLog) FinishJob(ctx context.Context, entry *store.SyncJobLog) error {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()
	if m.d.logErr != nil {
		return m.d.logErr
	}
	for i := range m.d.logs {
		l := &m.d.logs[i]
		if l.BatchID == entry.BatchID && l.JobName == entry.JobName && l.FinishedAt == nil {
			l.Status = entry.Status
			l.Message = entry.Message
			l.FinishedAt = entry.FinishedAt
		}
	}
	return nil
}

func (m memSyncLog) GetLatestRuns(ctx context.Context, jobs []string, limit int) ([]store.SyncJobLog, error) {
	return nil, nil
}

func (m memSyncLog) GetBatch(ctx context.Context, batchID string) ([]store.SyncJobLog, error) {
	return nil, nil
}
