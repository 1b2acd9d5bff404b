package cache

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// cursorTTL keeps stale cursors from lingering forever.
const cursorTTL = 7 * 24 * time.Hour

// Redis is a Store backed by a redis server.
type Redis struct {
	client *redis.Client
}

// NewRedis builds a redis-backed store from a REDIS_URL-like string.
// Accepts either a plain `host:port` or a `redis://`/`rediss://` URL.
func NewRedis(raw string) *Redis {
	if raw == "" {
		raw = "localhost:6379"
	}

	addr := raw
	opts := &redis.Options{}
	if strings.HasPrefix(raw, "redis://") || strings.HasPrefix(raw, "rediss://") {
		if u, err := url.Parse(raw); err == nil {
			addr = u.Host
			if u.User != nil {
				if pw, ok := u.User.Password(); ok {
					opts.Password = pw
				}
			}
			if p := strings.Trim(u.Path, "/"); p != "" {
				if dbn, err := strconv.Atoi(p); err == nil {
					opts.DB = dbn
				}
			}
		}
	}
	opts.Addr = addr

	client := redis.NewClient(opts)
	// warm up (best-effort)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	_ = client.Ping(ctx).Err()
	return &Redis{client: client}
}

// NewRedisWithClient wraps an existing client; used by tests.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) GetString(ctx context.Context, key string) (string, bool, error) {
	s, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (r *Redis) SetString(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, cursorTTL).Err()
}

func (r *Redis) GetInt(ctx context.Context, key string) (int64, bool, error) {
	s, found, err := r.GetString(ctx, key)
	if err != nil || !found {
		return 0, found, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (r *Redis) SetInt(ctx context.Context, key string, value int64) error {
	return r.SetString(ctx, key, strconv.FormatInt(value, 10))
}

func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
