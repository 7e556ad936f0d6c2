package posync

import (
	"context"
	"fmt"
	"time"

	"github.com/farxc/vendas_sync/internal/source"
	"github.com/farxc/vendas_sync/internal/store"
)

const (
	reasonShiftPaid    = "Total pago (turno)"
	reasonShiftExpense = "Despesa caixa (turno)"
)

// cashMovementsFrom splits one shift into its inflow and outflow. Ids
// derive from the shift id only, so re-reading a shift updates the same
// two rows.
func cashMovementsFrom(row source.ShiftRow, now time.Time) [2]*store.CashMovement {
	movedAt := now
	switch {
	case row.ClosedAt.Valid:
		movedAt = row.ClosedAt.Time
	case row.OpenedAt.Valid:
		movedAt = row.OpenedAt.Time
	}

	return [2]*store.CashMovement{
		{
			MovementID:   fmt.Sprintf("MCX-%d-IN", row.ID),
			MovementType: store.MovementIn,
			Reason:       reasonShiftPaid,
			Amount:       orZero(row.TotalPaid),
			MovedAt:      movedAt,
		},
		{
			MovementID:   fmt.Sprintf("MCX-%d-OUT", row.ID),
			MovementType: store.MovementOut,
			Reason:       reasonShiftExpense,
			Amount:       orZero(row.CashExpense),
			MovedAt:      movedAt,
		},
	}
}

// SyncCashMovements upserts two movements per shift opened or closed
// inside the cash window.
func (s *Syncer) SyncCashMovements(ctx context.Context) (int, error) {
	reader, session, release, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	rows, err := reader.Shifts(ctx, s.since(s.windows.Cash))
	if err != nil {
		return 0, err
	}

	count := 0
	now := s.now()
	for _, row := range rows {
		for _, movement := range cashMovementsFrom(row, now) {
			if err := session.CashMovements.UpsertCashMovement(ctx, movement); err != nil {
				return count, fmt.Errorf("failed to upsert cash movement %s: %w", movement.MovementID, err)
			}
			count++
		}
	}
	return count, nil
}
