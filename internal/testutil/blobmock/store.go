package blobmock

import (
	"context"
	"time"

	"lendcore/internal/domain/blob"
)

var _ blob.Store = (*Store)(nil)

// Store is a function-backed mock that satisfies blob.Store. Unfilled
// fields return a deterministic fake URL.
type Store struct {
	SignedPutURLFn func(ctx context.Context, key, contentType string, ttl time.Duration) (string, time.Time, error)
	SignedGetURLFn func(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}

func (m *Store) SignedPutURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, time.Time, error) {
	if m.SignedPutURLFn != nil {
		return m.SignedPutURLFn(ctx, key, contentType, ttl)
	}
	return "https://blob.test/put/" + key, time.Now().UTC().Add(ttl), nil
}
func (m *Store) SignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	if m.SignedGetURLFn != nil {
		return m.SignedGetURLFn(ctx, key, ttl)
	}
	return "https://blob.test/get/" + key, time.Now().UTC().Add(ttl), nil
}
