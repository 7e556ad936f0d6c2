package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AmountScale is the scale of stored quantities and money. An order total is
// a sum of qty*unit_price products, so its column carries twice the scale
// and holds the sum exactly.
const AmountScale = 4

// Timestamps are stored without time zone: the point-of-sale clock is local.
var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS tables_status (
    table_id      TEXT PRIMARY KEY,
    table_name    TEXT NOT NULL,
    area_name     TEXT,
    sector_name   TEXT,
    status        TEXT NOT NULL DEFAULT 'UNKNOWN',
    opened_at     TIMESTAMP,
    last_order_at TIMESTAMP,
    current_total NUMERIC(19,4) NOT NULL DEFAULT 0,
    orders_count  INTEGER NOT NULL DEFAULT 0,
    operator_name TEXT,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS orders (
    order_id      TEXT PRIMARY KEY,
    table_id      TEXT,
    table_name    TEXT,
    status        TEXT NOT NULL DEFAULT 'OPEN',
    opened_at     TIMESTAMP NOT NULL,
    closed_at     TIMESTAMP,
    operator_name TEXT,
    total         NUMERIC(28,8) NOT NULL DEFAULT 0,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE TABLE IF NOT EXISTS order_items (
    id           BIGSERIAL PRIMARY KEY,
    order_id     TEXT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
    product_id   TEXT,
    product_name TEXT,
    qty          NUMERIC(19,4) NOT NULL DEFAULT 0,
    unit_price   NUMERIC(19,4) NOT NULL DEFAULT 0,
    created_at   TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
	`CREATE TABLE IF NOT EXISTS expenses (
    expense_id    TEXT PRIMARY KEY,
    expense_type  TEXT,
    description   TEXT,
    amount        NUMERIC(19,4) NOT NULL DEFAULT 0,
    spent_at      TIMESTAMP,
    operator_name TEXT,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS cash_movements (
    movement_id   TEXT PRIMARY KEY,
    movement_type TEXT NOT NULL,
    reason        TEXT NOT NULL DEFAULT '',
    amount        NUMERIC(19,4) NOT NULL DEFAULT 0,
    moved_at      TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE TABLE IF NOT EXISTS sync_job_log (
    id          BIGSERIAL PRIMARY KEY,
    batch_id    TEXT NOT NULL,
    job_name    TEXT NOT NULL,
    status      TEXT NOT NULL,
    message     TEXT NOT NULL DEFAULT '',
    started_at  TIMESTAMP NOT NULL,
    finished_at TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_job_log_batch ON sync_job_log(batch_id, job_name)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_job_log_started ON sync_job_log(started_at DESC)`,
}

// Migrate applies the reporting schema. Every statement is idempotent.
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	for i, stmt := range schemaPostgres {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
