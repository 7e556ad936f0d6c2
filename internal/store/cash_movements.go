package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type CashMovementStore struct {
	db DBTX
}

func (cs *CashMovementStore) UpsertCashMovement(ctx context.Context, movement *CashMovement) error {
	return Upsert(ctx, cs.db, cashMovementUpsert, movement)
}

func (cs *CashMovementStore) GetCashMovements(ctx context.Context, since time.Time) ([]CashMovement, error) {
	query := `
	SELECT
		movement_id,
		movement_type,
		reason,
		amount,
		moved_at,
		updated_at
	FROM cash_movements
	WHERE moved_at >= ?
	ORDER BY moved_at DESC, movement_id`

	var movements []CashMovement
	if err := sqlx.SelectContext(ctx, cs.db, &movements, cs.db.Rebind(query), since); err != nil {
		return nil, fmt.Errorf("failed to query cash movements: %w", err)
	}
	return movements, nil
}
