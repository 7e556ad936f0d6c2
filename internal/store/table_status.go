package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type TableStatusStore struct {
	db DBTX
}

func (ts *TableStatusStore) UpsertTableStatus(ctx context.Context, table *TableStatus) error {
	return Upsert(ctx, ts.db, tableStatusUpsert, table)
}

func (ts *TableStatusStore) GetTableStatuses(ctx context.Context) ([]TableStatus, error) {
	query := `
	SELECT
		table_id,
		table_name,
		area_name,
		sector_name,
		status,
		opened_at,
		last_order_at,
		current_total,
		orders_count,
		operator_name,
		updated_at
	FROM tables_status
	ORDER BY table_id`

	var tables []TableStatus
	if err := sqlx.SelectContext(ctx, ts.db, &tables, query); err != nil {
		return nil, fmt.Errorf("failed to query table status: %w", err)
	}
	return tables, nil
}
