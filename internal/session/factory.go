package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// New builds the session store named by driver ("memory" or "redis"). The
// memory driver starts its own janitor bound to ctx.
func New(ctx context.Context, driver, redisAddr string, ttl time.Duration) (Store, error) {
	switch driver {
	case "", "memory":
		store := NewMemoryStore(ttl)
		store.StartJanitor(ctx, 10*time.Minute)
		return store, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", redisAddr, err)
		}
		return NewRedisStore(client, ttl), nil
	default:
		return nil, fmt.Errorf("unknown session store driver %q", driver)
	}
}
