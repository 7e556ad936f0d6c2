package source

import (
	"context"
	"fmt"
	"time"

	"github.com/farxc/vendas_sync/internal/db"
	"github.com/jmoiron/sqlx"
)

// Queries are written with ? placeholders and portable functions; each
// session rebinds them for its driver (@pN on SQL Server, $N on Postgres).
const (
	tablesQuery = `
	SELECT
		m.codigo AS table_id,
		m.estado AS estado,
		m.sector AS sector,
		m.cont AS cont,
		m.nota_time AS mesa_opened_at,
		(SELECT MAX(p.data) FROM Pedido p WHERE p.cont = m.cont) AS last_order_at,
		(SELECT SUM(COALESCE(p.quant, 0) * COALESCE(p.valor, 0)) FROM Pedido p WHERE p.cont = m.cont) AS current_total,
		(SELECT MIN(p.data) FROM Pedido p WHERE p.cont = m.cont) AS first_order_at
	FROM Mesa m`

	orderLinesQuery = `
	SELECT
		cont,
		mesa,
		cliente,
		data,
		codigo,
		designacao,
		quant,
		valor
	FROM Pedido
	WHERE data >= ?`

	expensesQuery = `
	SELECT
		id,
		data,
		descricao,
		valor,
		obs,
		user_r
	FROM Despesas
	WHERE data >= ?`

	shiftsQuery = `
	SELECT
		id,
		abertura,
		fecho,
		total_pago,
		desp_caixa
	FROM N_MovimentosCaixa
	WHERE abertura >= ? OR fecho >= ?`
)

type SQLSource struct {
	pool *db.Pool
}

func NewSQL(pool *db.Pool) *SQLSource {
	return &SQLSource{pool: pool}
}

func (s *SQLSource) Open(ctx context.Context) (Reader, error) {
	conn, err := s.pool.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlReader{conn: conn}, nil
}

type sqlReader struct {
	conn *sqlx.Conn
}

func (r *sqlReader) Tables(ctx context.Context) ([]TableRow, error) {
	var rows []TableRow
	if err := r.conn.SelectContext(ctx, &rows, tablesQuery); err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}
	return rows, nil
}

func (r *sqlReader) OrderLines(ctx context.Context, since time.Time) ([]OrderLine, error) {
	var rows []OrderLine
	if err := r.conn.SelectContext(ctx, &rows, r.conn.Rebind(orderLinesQuery), wallClock(since)); err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	return rows, nil
}

func (r *sqlReader) Expenses(ctx context.Context, since time.Time) ([]ExpenseRow, error) {
	var rows []ExpenseRow
	if err := r.conn.SelectContext(ctx, &rows, r.conn.Rebind(expensesQuery), wallClock(since)); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}
	return rows, nil
}

func (r *sqlReader) Shifts(ctx context.Context, since time.Time) ([]ShiftRow, error) {
	cutoff := wallClock(since)
	var rows []ShiftRow
	if err := r.conn.SelectContext(ctx, &rows, r.conn.Rebind(shiftsQuery), cutoff, cutoff); err != nil {
		return nil, fmt.Errorf("failed to read shifts: %w", err)
	}
	return rows, nil
}

func (r *sqlReader) Close() error {
	return r.conn.Close()
}

// wallClock keeps the reading of the local clock and drops the zone. The
// point-of-sale columns hold zone-less local times and drivers send a
// time.Time with its offset.
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
