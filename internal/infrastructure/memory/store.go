// Package memory implements the repository interfaces on process memory.
// It backs DB_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
)

type txKey struct{}

// txLog collects the inverse of every write made inside one transaction
type txLog struct {
	undo []func()
}

// Store holds every table of the in-memory database
type Store struct {
	mu          sync.RWMutex
	customers   map[uuid.UUID]entity.Customer
	orders      map[uuid.UUID]entity.Order
	settings    map[string][]byte
	idempotency map[string]entity.IdempotencyKey

	// txMu serialises transactions
	txMu sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		customers:   make(map[uuid.UUID]entity.Customer),
		orders:      make(map[uuid.UUID]entity.Order),
		settings:    make(map[string][]byte),
		idempotency: make(map[string]entity.IdempotencyKey),
	}
}

// WithinTransaction runs fn with exclusive access to the transaction lock.
// When fn returns an error only the rows fn wrote are reverted, so writes
// made concurrently outside the transaction survive. Nested calls join the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txLog); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		for i := len(log.undo) - 1; i >= 0; i-- {
			log.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

// put stores v under k and, inside a transaction, remembers the previous
// row. Callers hold s.mu.
func put[K comparable, V any](ctx context.Context, m map[K]V, k K, v V) {
	prev, existed := m[k]
	if log, ok := ctx.Value(txKey{}).(*txLog); ok {
		log.undo = append(log.undo, func() {
			if existed {
				m[k] = prev
			} else {
				delete(m, k)
			}
		})
	}
	m[k] = v
}

// remove deletes k and, inside a transaction, remembers the removed row.
// Callers hold s.mu.
func remove[K comparable, V any](ctx context.Context, m map[K]V, k K) {
	prev, existed := m[k]
	if !existed {
		return
	}
	if log, ok := ctx.Value(txKey{}).(*txLog); ok {
		log.undo = append(log.undo, func() { m[k] = prev })
	}
	delete(m, k)
}
