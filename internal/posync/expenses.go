package posync

import (
	"context"
	"fmt"
	"strconv"

	"github.com/farxc/vendas_sync/internal/source"
	"github.com/farxc/vendas_sync/internal/store"
)

func expenseFrom(row source.ExpenseRow) *store.Expense {
	return &store.Expense{
		ExpenseID:    strconv.FormatInt(row.ID, 10),
		ExpenseType:  stringPtr(row.Description),
		Description:  stringPtr(row.Note),
		Amount:       orZero(row.Amount),
		SpentAt:      timePtr(row.SpentAt),
		OperatorName: stringPtr(row.Operator),
	}
}

// SyncExpenses mirrors expenses inside the expense window one to one.
func (s *Syncer) SyncExpenses(ctx context.Context) (int, error) {
	reader, session, release, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	rows, err := reader.Expenses(ctx, s.since(s.windows.Expenses))
	if err != nil {
		return 0, err
	}

	for i, row := range rows {
		expense := expenseFrom(row)
		if err := session.Expenses.UpsertExpense(ctx, expense); err != nil {
			return i, fmt.Errorf("failed to upsert expense %s: %w", expense.ExpenseID, err)
		}
	}
	return len(rows), nil
}
