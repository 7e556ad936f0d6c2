package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the normalized state shared by tables and orders.
type Status string

const (
	StatusOpen    Status = "OPEN"
	StatusClosed  Status = "CLOSED"
	StatusUnknown Status = "UNKNOWN"
)

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// TableStatus represents the 'tables_status' table.
type TableStatus struct {
	TableID      string          `db:"table_id" json:"table_id"`
	TableName    string          `db:"table_name" json:"table_name"`
	AreaName     *string         `db:"area_name" json:"area_name,omitempty"`
	SectorName   *string         `db:"sector_name" json:"sector_name,omitempty"`
	Status       Status          `db:"status" json:"status"`
	OpenedAt     *time.Time      `db:"opened_at" json:"opened_at,omitempty"`
	LastOrderAt  *time.Time      `db:"last_order_at" json:"last_order_at,omitempty"`
	CurrentTotal decimal.Decimal `db:"current_total" json:"current_total"`
	OrdersCount  int             `db:"orders_count" json:"orders_count"`
	OperatorName *string         `db:"operator_name" json:"operator_name,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

func (t *TableStatus) Key() string { return t.TableID }

// Order represents the 'orders' table. Items is filled only by GetOrder.
type Order struct {
	OrderID      string          `db:"order_id" json:"order_id"`
	TableID      *string         `db:"table_id" json:"table_id,omitempty"`
	TableName    *string         `db:"table_name" json:"table_name,omitempty"`
	Status       Status          `db:"status" json:"status"`
	OpenedAt     time.Time       `db:"opened_at" json:"opened_at"`
	ClosedAt     *time.Time      `db:"closed_at" json:"closed_at,omitempty"`
	OperatorName *string         `db:"operator_name" json:"operator_name,omitempty"`
	Total        decimal.Decimal `db:"total" json:"total"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	Items        []OrderItem     `db:"-" json:"items,omitempty"`
}

func (o *Order) Key() string { return o.OrderID }

// OrderItem represents the 'order_items' table. ID is assigned by the
// database and preserves insertion order.
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     string          `db:"order_id" json:"order_id"`
	ProductID   *string         `db:"product_id" json:"product_id,omitempty"`
	ProductName *string         `db:"product_name" json:"product_name,omitempty"`
	Qty         decimal.Decimal `db:"qty" json:"qty"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	CreatedAt   *time.Time      `db:"created_at" json:"created_at,omitempty"`
}

// Expense represents the 'expenses' table.
type Expense struct {
	ExpenseID    string          `db:"expense_id" json:"expense_id"`
	ExpenseType  *string         `db:"expense_type" json:"expense_type,omitempty"`
	Description  *string         `db:"description" json:"description,omitempty"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	SpentAt      *time.Time      `db:"spent_at" json:"spent_at,omitempty"`
	OperatorName *string         `db:"operator_name" json:"operator_name,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

func (e *Expense) Key() string { return e.ExpenseID }

// CashMovement represents the 'cash_movements' table.
type CashMovement struct {
	MovementID   string          `db:"movement_id" json:"movement_id"`
	MovementType MovementType    `db:"movement_type" json:"movement_type"`
	Reason       string          `db:"reason" json:"reason"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	MovedAt      time.Time       `db:"moved_at" json:"moved_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

func (c *CashMovement) Key() string { return c.MovementID }

// SyncJobLog represents one row of the 'sync_job_log' table. A batch owns
// one SYNC_ALL envelope row plus one row per task.
type SyncJobLog struct {
	ID         int64      `db:"id" json:"id"`
	BatchID    string     `db:"batch_id" json:"batch_id"`
	JobName    string     `db:"job_name" json:"job_name"`
	Status     string     `db:"status" json:"status"`
	Message    string     `db:"message" json:"message"`
	StartedAt  time.Time  `db:"started_at" json:"started_at"`
	FinishedAt *time.Time `db:"finished_at" json:"finished_at,omitempty"`
}
