package store

import (
	"context"
	"io"

	"github.com/farxc/vendas_sync/internal/db"
	"github.com/jmoiron/sqlx"
)

// Destination hands out sessions bound to one connection of the reporting store.
type Destination interface {
	Open(ctx context.Context) (*Session, error)
}

// Session is a Storage scoped to one acquisition. Close releases it.
type Session struct {
	*Storage
	closer io.Closer
}

func NewSession(storage *Storage, closer io.Closer) *Session {
	return &Session{Storage: storage, closer: closer}
}

func (s *Session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

type SQLDestination struct {
	pool *db.Pool
}

func NewSQLDestination(pool *db.Pool) *SQLDestination {
	return &SQLDestination{pool: pool}
}

func (d *SQLDestination) Open(ctx context.Context) (*Session, error) {
	conn, err := d.pool.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return NewSession(NewStorage(&connTx{Conn: conn, driver: d.pool.Driver()}), conn), nil
}

// connTx adds the binder methods sqlx.Conn lacks so a single connection can
// be used wherever a *sqlx.DB is.
type connTx struct {
	*sqlx.Conn
	driver string
}

func (c *connTx) DriverName() string {
	return c.driver
}

func (c *connTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return sqlx.BindNamed(sqlx.BindType(c.driver), query, arg)
}
