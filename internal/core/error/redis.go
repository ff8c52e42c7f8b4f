package errx

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// SessionStoreMessage describes failures of the session key-value store.
const SessionStoreMessage = "Session store is unavailable"

// WrapRedis maps Redis errors onto a Failure. redis.Nil is not an error for
// callers of this package and must be handled before wrapping.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return err
	}
	return &Failure{
		Kind:    KindTransport,
		Message: SessionStoreMessage,
		Err:     err,
	}
}
