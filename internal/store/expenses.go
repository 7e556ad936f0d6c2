package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type ExpenseStore struct {
	db DBTX
}

func (es *ExpenseStore) UpsertExpense(ctx context.Context, expense *Expense) error {
	return Upsert(ctx, es.db, expenseUpsert, expense)
}

func (es *ExpenseStore) GetExpenses(ctx context.Context, since time.Time) ([]Expense, error) {
	query := `
	SELECT
		expense_id,
		expense_type,
		description,
		amount,
		spent_at,
		operator_name,
		updated_at
	FROM expenses
	WHERE spent_at >= ?
	ORDER BY spent_at DESC, expense_id`

	var expenses []Expense
	if err := sqlx.SelectContext(ctx, es.db, &expenses, es.db.Rebind(query), since); err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	return expenses, nil
}
