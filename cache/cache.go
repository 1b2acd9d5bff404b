// Package cache persists small pieces of pagination state between runs:
// the last feed set cursor and the last notification check time.
package cache

import "context"

// Store is the key-value surface the SDK needs. Keep it minimal for
// testability.
type Store interface {
	GetString(ctx context.Context, key string) (string, bool, error)
	SetString(ctx context.Context, key, value string) error
	GetInt(ctx context.Context, key string) (int64, bool, error)
	SetInt(ctx context.Context, key string, value int64) error
	Close() error
}

// Well-known keys.
const (
	KeyFeedSet        = "gorant:feed:set"
	KeyNotifCheckTime = "gorant:notifs:check_time"
)
