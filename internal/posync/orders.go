package posync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/farxc/vendas_sync/internal/source"
	"github.com/farxc/vendas_sync/internal/store"
	"github.com/shopspring/decimal"
)

// orderGroup holds the lines of one tab in the order they were read.
type orderGroup struct {
	cont  int64
	lines []source.OrderLine
}

// groupLines groups lines by tab counter. Groups come out in the order
// their first line was read. Lines without a counter belong to no order.
func groupLines(lines []source.OrderLine) []orderGroup {
	index := make(map[int64]int)
	var groups []orderGroup
	for _, line := range lines {
		if !line.Cont.Valid {
			continue
		}
		i, ok := index[line.Cont.Int64]
		if !ok {
			i = len(groups)
			index[line.Cont.Int64] = i
			groups = append(groups, orderGroup{cont: line.Cont.Int64})
		}
		groups[i].lines = append(groups[i].lines, line)
	}
	return groups
}

// buildOrder derives the header and the full item set of one tab. Orders
// are always OPEN: the source exposes no close event.
func buildOrder(g orderGroup, now time.Time) (*store.Order, []store.OrderItem) {
	var (
		openedAt time.Time
		total    = decimal.Zero
		items    = make([]store.OrderItem, 0, len(g.lines))
	)

	for _, line := range g.lines {
		if line.At.Valid && (openedAt.IsZero() || line.At.Time.Before(openedAt)) {
			openedAt = line.At.Time
		}

		qty := orZero(line.Qty).Round(store.AmountScale)
		price := orZero(line.UnitPrice).Round(store.AmountScale)
		total = total.Add(qty.Mul(price))

		items = append(items, store.OrderItem{
			ProductID:   stringPtr(line.ProductCode),
			ProductName: stringPtr(line.ProductName),
			Qty:         qty,
			UnitPrice:   price,
			CreatedAt:   timePtr(line.At),
		})
	}
	if openedAt.IsZero() {
		openedAt = now
	}

	table := stringPtr(g.lines[0].Table)
	order := &store.Order{
		OrderID:   strconv.FormatInt(g.cont, 10),
		TableID:   table,
		TableName: table,
		Status:    store.StatusOpen,
		OpenedAt:  openedAt,
		Total:     total,
	}
	return order, items
}

// SyncOrders upserts every tab with lines inside the order window and
// replaces its items. The count is the number of tabs grouped; a failure
// aborts the remaining tabs.
func (s *Syncer) SyncOrders(ctx context.Context) (int, error) {
	const component = "OrderSync"

	reader, session, release, err := s.open(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	since := s.since(s.windows.Orders)
	lines, err := reader.OrderLines(ctx, since)
	if err != nil {
		return 0, err
	}

	groups := groupLines(lines)
	now := s.now()
	for _, g := range groups {
		order, items := buildOrder(g, now)
		if err := session.Orders.UpsertOrder(ctx, order, items); err != nil {
			return len(groups), fmt.Errorf("failed to sync order %s: %w", order.OrderID, err)
		}
	}

	s.appLogger.Debug(component, "Order lines read=%d orders=%d since=%s", len(lines), len(groups), since.Format(time.RFC3339))
	return len(groups), nil
}
