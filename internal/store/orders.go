package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

type OrderStore struct {
	db DBTX
}

type OrderFilter struct {
	Status Status
	Since  *time.Time
	Limit  int
}

const insertOrderItemQuery = `INSERT INTO order_items (
		order_id,
		product_id,
		product_name,
		qty,
		unit_price,
		created_at
	) VALUES (
		:order_id,
		:product_id,
		:product_name,
		:qty,
		:unit_price,
		:created_at
	)`

// UpsertOrder upserts the header and replaces the whole item set in one
// transaction. Items are deleted and reinserted, never diffed.
func (o *OrderStore) UpsertOrder(ctx context.Context, order *Order, items []OrderItem) error {
	if strings.TrimSpace(order.OrderID) == "" {
		return ErrEmptyKey
	}

	tx, err := o.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin order %s: %w", order.OrderID, err)
	}
	defer tx.Rollback()

	if err := Upsert(ctx, tx, orderUpsert, order); err != nil {
		return fmt.Errorf("failed to upsert order %s: %w", order.OrderID, err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM order_items WHERE order_id = ?`), order.OrderID); err != nil {
		return fmt.Errorf("failed to clear items of order %s: %w", order.OrderID, err)
	}

	for i := range items {
		items[i].OrderID = order.OrderID
		if _, err := sqlx.NamedExecContext(ctx, tx, insertOrderItemQuery, &items[i]); err != nil {
			return fmt.Errorf("failed to insert item %d of order %s: %w", i, order.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order %s: %w", order.OrderID, err)
	}
	return nil
}

const selectOrderColumns = `
		order_id,
		table_id,
		table_name,
		status,
		opened_at,
		closed_at,
		operator_name,
		total,
		updated_at`

func (o *OrderStore) GetOrders(ctx context.Context, filter OrderFilter) ([]Order, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Since != nil {
		conditions = append(conditions, "opened_at >= ?")
		args = append(args, *filter.Since)
	}

	query := "SELECT" + selectOrderColumns + "\n\tFROM orders"
	if len(conditions) > 0 {
		query += "\n\tWHERE " + strings.Join(conditions, " AND ")
	}
	query += "\n\tORDER BY opened_at DESC, order_id"
	if filter.Limit > 0 {
		query += "\n\tLIMIT ?"
		args = append(args, filter.Limit)
	}

	var orders []Order
	if err := sqlx.SelectContext(ctx, o.db, &orders, o.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns the header with its items in insertion order.
func (o *OrderStore) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	query := "SELECT" + selectOrderColumns + "\n\tFROM orders\n\tWHERE order_id = ?"

	order := &Order{}
	if err := sqlx.GetContext(ctx, o.db, order, o.db.Rebind(query), orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query order %s: %w", orderID, err)
	}

	itemsQuery := `
	SELECT
		id,
		order_id,
		product_id,
		product_name,
		qty,
		unit_price,
		created_at
	FROM order_items
	WHERE order_id = ?
	ORDER BY id`

	if err := sqlx.SelectContext(ctx, o.db, &order.Items, o.db.Rebind(itemsQuery), orderID); err != nil {
		return nil, fmt.Errorf("failed to query items of order %s: %w", orderID, err)
	}
	return order, nil
}
