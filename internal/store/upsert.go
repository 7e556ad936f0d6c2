package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrEmptyKey = errors.New("upsert key must not be empty")

// Keyed is a record that carries its own natural key.
type Keyed interface {
	Key() string
}

// UpsertSpec describes an "insert or update by key" target. Columns lists the
// value columns; the key column is added in front. Touch names the column set
// to CURRENT_TIMESTAMP when an existing row is updated.
type UpsertSpec struct {
	Table   string
	Key     string
	Columns []string
	Touch   string
}

func (s UpsertSpec) Query() string {
	columns := append([]string{s.Key}, s.Columns...)

	params := make([]string, len(columns))
	for i, c := range columns {
		params[i] = ":" + c
	}

	sets := make([]string, 0, len(s.Columns)+1)
	for _, c := range s.Columns {
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	if s.Touch != "" {
		sets = append(sets, s.Touch+" = CURRENT_TIMESTAMP")
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		s.Table,
		strings.Join(columns, ", "),
		strings.Join(params, ", "),
		s.Key,
		strings.Join(sets, ", "),
	)
}

// Upsert writes rec as a single statement, so the row is either updated in
// place or inserted. Store errors are returned as they come.
func Upsert(ctx context.Context, q sqlx.ExtContext, spec UpsertSpec, rec Keyed) error {
	if strings.TrimSpace(rec.Key()) == "" {
		return ErrEmptyKey
	}
	_, err := sqlx.NamedExecContext(ctx, q, spec.Query(), rec)
	return err
}

var (
	tableStatusUpsert = UpsertSpec{
		Table: "tables_status",
		Key:   "table_id",
		Columns: []string{
			"table_name",
			"area_name",
			"sector_name",
			"status",
			"opened_at",
			"last_order_at",
			"current_total",
			"orders_count",
			"operator_name",
		},
		Touch: "updated_at",
	}

	orderUpsert = UpsertSpec{
		Table: "orders",
		Key:   "order_id",
		Columns: []string{
			"table_id",
			"table_name",
			"status",
			"opened_at",
			"closed_at",
			"operator_name",
			"total",
		},
		Touch: "updated_at",
	}

	expenseUpsert = UpsertSpec{
		Table: "expenses",
		Key:   "expense_id",
		Columns: []string{
			"expense_type",
			"description",
			"amount",
			"spent_at",
			"operator_name",
		},
		Touch: "updated_at",
	}

	cashMovementUpsert = UpsertSpec{
		Table: "cash_movements",
		Key:   "movement_id",
		Columns: []string{
			"movement_type",
			"reason",
			"amount",
			"moved_at",
		},
		Touch: "updated_at",
	}
)
