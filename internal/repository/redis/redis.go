package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "rl:ip:"

// RateLimitRepository counts hits per client in fixed windows.
type RateLimitRepository struct {
	client    *redis.Client
	keyPrefix string
}

func NewRateLimitRepository(client *redis.Client, keyPrefix string) *RateLimitRepository {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	return &RateLimitRepository{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// WindowKey returns the counter key for subject in the window containing now.
func (r *RateLimitRepository) WindowKey(subject string, now time.Time, window time.Duration) string {
	// key format: "{prefix}{subject}:{window_start_unix}"
	bucket := now.UnixNano() / int64(window)
	return r.keyPrefix + subject + ":" + strconv.FormatInt(bucket*int64(window)/int64(time.Second), 10)
}

// Incr bumps the counter for subject in the current window and returns the new
// count. Keys expire after two windows.
func (r *RateLimitRepository) Incr(ctx context.Context, subject string, window time.Duration) (int64, error) {
	if window <= 0 {
		window = time.Second
	}

	key := r.WindowKey(subject, time.Now(), window)

	pipe := r.client.Pipeline()
	cnt := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment rate counter in Redis: %w", err)
	}

	return cnt.Val(), nil
}
