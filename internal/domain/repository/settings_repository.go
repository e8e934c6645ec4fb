package repository

import "context"

// SettingsRepository is a key/value store for application-wide settings.
// Values are JSON encoded.
type SettingsRepository interface {
	// Get decodes the value stored under key into dest. It reports false
	// when the key has never been set.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// SequenceRepository hands out values from named monotonically increasing
// counters. Next returns the current value and advances the stored counter
// in one atomic step; a counter that was never used starts at 1.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
