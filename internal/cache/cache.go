package cache

import (
	"context"
	"time"
)

// Store is a best-effort byte cache. Misses and backend errors look the same to callers.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
	Delete(ctx context.Context, keys ...string)
}

const defaultTTL = 5 * time.Second

func EventSlugKey(slug string) string {
	return "events:slug:v1:" + slug
}
