package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
)

// IdempotencyRepository is the in-memory idempotency key table
type IdempotencyRepository struct {
	store *Store
}

// NewIdempotencyRepository creates an idempotency repository on store
func NewIdempotencyRepository(store *Store) *IdempotencyRepository {
	return &IdempotencyRepository{store: store}
}

func idempotencyID(key, endpoint string) string {
	return endpoint + "\x00" + key
}

func (r *IdempotencyRepository) GetByKey(_ context.Context, key, endpoint string) (*entity.IdempotencyKey, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ikey, ok := r.store.idempotency[idempotencyID(key, endpoint)]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *IdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	if ikey.ID == uuid.Nil {
		ikey.ID = uuid.New()
	}
	ikey.CreatedAt = time.Now()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	put(ctx, r.store.idempotency, idempotencyID(ikey.Key, ikey.Endpoint), *ikey)
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	now := time.Now()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for id, ikey := range r.store.idempotency {
		if now.After(ikey.ExpiresAt) {
			remove(ctx, r.store.idempotency, id)
			n++
		}
	}
	return n, nil
}
