package posync

import (
	"context"
	"fmt"
	"strings"

	"github.com/farxc/vendas_sync/internal/source"
	"github.com/farxc/vendas_sync/internal/store"
)

// SyncTables refreshes one TableStatus per source table.
func (s *Syncer) SyncTables(ctx context.Context) (int, error) {
	const component = "TableSync"

	reader, session, release, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	rows, err := reader.Tables(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range rows {
		table, ok := tableStatusFrom(row)
		if !ok {
			continue
		}
		if err := session.TableStatus.UpsertTableStatus(ctx, table); err != nil {
			return count, fmt.Errorf("failed to upsert table %s: %w", table.TableID, err)
		}
		count++
	}

	s.appLogger.Debug(component, "Tables read=%d upserted=%d", len(rows), count)
	return count, nil
}

func tableStatusFrom(row source.TableRow) (*store.TableStatus, bool) {
	id := strings.TrimSpace(row.TableID.String)
	if id == "" {
		return nil, false
	}

	status := NormalizeStatus(row.Status.String)

	openedAt := timePtr(row.OpenedAt)
	if openedAt == nil {
		openedAt = timePtr(row.FirstOrderAt)
	}

	// Not a real count: one open tab per occupied table.
	ordersCount := 0
	if status == store.StatusOpen {
		ordersCount = 1
	}

	return &store.TableStatus{
		TableID:      id,
		TableName:    id,
		SectorName:   stringPtr(row.Sector),
		Status:       status,
		OpenedAt:     openedAt,
		LastOrderAt:  timePtr(row.LastOrderAt),
		CurrentTotal: orZero(row.CurrentTotal),
		OrdersCount:  ordersCount,
	}, true
}
