// internal/history/redis.go
package history

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists conversation lines in Redis lists, one list per
// conversation key. LPUSH keeps the newest line at the head.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Compile-time interface check.
var _ Store = (*RedisStore)(nil)

// Ping verifies the connection at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func (s *RedisStore) AppendLine(ctx context.Context, key, line string) error {
	if err := s.client.LPush(ctx, key, line).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

func (s *RedisStore) RecentLines(ctx context.Context, key string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	lines, err := s.client.LRange(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return lines, nil
}
