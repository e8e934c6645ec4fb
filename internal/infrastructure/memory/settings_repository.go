package memory

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
)

// SettingsRepository is the in-memory settings table. It also serves as the
// sequence repository, keeping counters next to the other settings.
type SettingsRepository struct {
	store *Store
}

// NewSettingsRepository creates a settings repository on store
func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

func (r *SettingsRepository) Get(_ context.Context, key string, dest any) (bool, error) {
	r.store.mu.RLock()
	data, ok := r.store.settings[key]
	r.store.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, errors.Wrapf(err, "decode setting %q", key)
	}
	return true, nil
}

func (r *SettingsRepository) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode setting %q", key)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	put(ctx, r.store.settings, key, data)
	return nil
}

func (r *SettingsRepository) Next(ctx context.Context, name string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current := int64(1)
	if data, ok := r.store.settings[name]; ok {
		if err := json.Unmarshal(data, &current); err != nil {
			return 0, errors.Wrapf(err, "decode counter %q", name)
		}
	}
	next, _ := json.Marshal(current + 1)
	put(ctx, r.store.settings, name, next)
	return current, nil
}
