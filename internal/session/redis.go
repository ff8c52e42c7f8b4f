package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	errx "github.com/storefront-console/client/internal/core/error"
	logx "github.com/storefront-console/client/pkg/logger"
)

// DefaultKey is the key the login flow stores the token under.
const DefaultKey = "token"

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// Redis reads the token from a Redis key on every lookup.
type Redis struct {
	rdb getter
	key string
}

// NewRedis accepts any redis.Cmdable (client, cluster client or ring).
func NewRedis(rdb redis.Cmdable, key string) *Redis {
	return newRedis(rdb, key)
}

func newRedis(rdb getter, key string) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{rdb: rdb, key: key}
}

func (r *Redis) Token(ctx context.Context) (Token, error) {
	v, err := r.rdb.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Absent(), nil
		}
		logx.Error().Err(err).Str("key", r.key).Msg("failed to read session token from redis")
		return Absent(), errx.WrapRedis(err)
	}
	return NewToken(v), nil
}

var _ Source = (*Redis)(nil)
