package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// BatchKey guards the one in-flight synchronization batch.
const BatchKey = "vendas_sync:batch"

var ErrNotObtained = errors.New("lock not obtained")

// Lease is a held lock. Refresh extends it by ttl and returns
// ErrNotObtained once the lease has already been lost.
type Lease interface {
	Refresh(ctx context.Context, ttl time.Duration) error
	Release(ctx context.Context) error
}

// Locker obtains leases without waiting: when the key is held elsewhere it
// returns ErrNotObtained.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Local guards keys inside one process. The ttl is ignored; a lease holds
// until released.
type Local struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewLocal() *Local {
	return &Local{held: make(map[string]bool)}
}

func (l *Local) Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[key] {
		return nil, ErrNotObtained
	}
	l.held[key] = true
	return &localLease{owner: l, key: key}, nil
}

type localLease struct {
	owner *Local
	key   string
	once  sync.Once
}

// Refresh is a no-op: local leases never expire.
func (ll *localLease) Refresh(ctx context.Context, ttl time.Duration) error {
	return nil
}

func (ll *localLease) Release(ctx context.Context) error {
	ll.once.Do(func() {
		ll.owner.mu.Lock()
		delete(ll.owner.held, ll.key)
		ll.owner.mu.Unlock()
	})
	return nil
}
