package source

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Reader is one session against the point-of-sale store. It only reads.
type Reader interface {
	// Tables returns every table with aggregates over its current order lines.
	Tables(ctx context.Context) ([]TableRow, error)
	OrderLines(ctx context.Context, since time.Time) ([]OrderLine, error)
	Expenses(ctx context.Context, since time.Time) ([]ExpenseRow, error)
	// Shifts returns shifts opened or closed at or after since.
	Shifts(ctx context.Context, since time.Time) ([]ShiftRow, error)
	Close() error
}

// Source opens Reader sessions. Every Open must be paired with Close.
type Source interface {
	Open(ctx context.Context) (Reader, error)
}

// Within reports whether t falls inside a window starting at since, inclusive.
func Within(t, since time.Time) bool {
	return !t.Before(since)
}

// TableRow is a row of Mesa plus the aggregates over Pedido for its tab.
type TableRow struct {
	TableID      sql.NullString      `db:"table_id"`
	Status       sql.NullString      `db:"estado"`
	Sector       sql.NullString      `db:"sector"`
	Cont         sql.NullInt64       `db:"cont"`
	OpenedAt     sql.NullTime        `db:"mesa_opened_at"`
	LastOrderAt  sql.NullTime        `db:"last_order_at"`
	CurrentTotal decimal.NullDecimal `db:"current_total"`
	FirstOrderAt sql.NullTime        `db:"first_order_at"`
}

// OrderLine is a row of Pedido. Cont is the tab counter that groups lines
// into one order.
type OrderLine struct {
	Cont        sql.NullInt64       `db:"cont"`
	Table       sql.NullString      `db:"mesa"`
	Customer    sql.NullString      `db:"cliente"`
	At          sql.NullTime        `db:"data"`
	ProductCode sql.NullString      `db:"codigo"`
	ProductName sql.NullString      `db:"designacao"`
	Qty         decimal.NullDecimal `db:"quant"`
	UnitPrice   decimal.NullDecimal `db:"valor"`
}

// ExpenseRow is a row of Despesas.
type ExpenseRow struct {
	ID          int64               `db:"id"`
	SpentAt     sql.NullTime        `db:"data"`
	Description sql.NullString      `db:"descricao"`
	Amount      decimal.NullDecimal `db:"valor"`
	Note        sql.NullString      `db:"obs"`
	Operator    sql.NullString      `db:"user_r"`
}

// ShiftRow is a row of N_MovimentosCaixa, one cash register shift.
type ShiftRow struct {
	ID          int64               `db:"id"`
	OpenedAt    sql.NullTime        `db:"abertura"`
	ClosedAt    sql.NullTime        `db:"fecho"`
	TotalPaid   decimal.NullDecimal `db:"total_pago"`
	CashExpense decimal.NullDecimal `db:"desp_caixa"`
}
