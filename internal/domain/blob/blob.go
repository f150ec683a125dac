package blob

import (
	"context"
	"time"
)

// Store is the receipt-storage capability: the core never touches bytes, it
// only hands out short-lived signed URLs.
type Store interface {
	SignedPutURL(ctx context.Context, key, contentType string, ttl time.Duration) (url string, expiresAt time.Time, err error)
	SignedGetURL(ctx context.Context, key string, ttl time.Duration) (url string, expiresAt time.Time, err error)
}
