package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/microsoft/go-mssqldb"
)

var ErrMissingConnectionString = errors.New("missing connection string")

const pingTimeout = 5 * time.Second

func New(ctx context.Context, driver, addr string, maxOpenConns, maxIdleConns int, maxIdleTime string) (*sqlx.DB, error) {
	if addr == "" {
		return nil, ErrMissingConnectionString
	}

	duration, err := time.ParseDuration(maxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("invalid max idle time %q: %w", maxIdleTime, err)
	}

	db, err := sqlx.Open(driver, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(duration)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return db, nil
}

type Options struct {
	Driver       string
	Addr         string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

// Pool opens its database on first use, so a missing connection string
// surfaces to whoever asks for a connection rather than at startup.
type Pool struct {
	name string
	opts Options

	mu sync.Mutex
	db *sqlx.DB
}

func NewPool(name string, opts Options) *Pool {
	return &Pool{name: name, opts: opts}
}

// FromDB wraps an already opened database.
func FromDB(name string, db *sqlx.DB) *Pool {
	return &Pool{name: name, opts: Options{Driver: db.DriverName()}, db: db}
}

func (p *Pool) Name() string {
	return p.name
}

func (p *Pool) Driver() string {
	return p.opts.Driver
}

func (p *Pool) DB(ctx context.Context) (*sqlx.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	db, err := New(ctx, p.opts.Driver, p.opts.Addr, p.opts.MaxOpenConns, p.opts.MaxIdleConns, p.opts.MaxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("%s store: %w", p.name, err)
	}
	p.db = db
	return db, nil
}

// Conn hands out one dedicated connection. Callers must Close it.
func (p *Pool) Conn(ctx context.Context) (*sqlx.Conn, error) {
	db, err := p.DB(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s connection: %w", p.name, err)
	}
	return conn, nil
}

func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
