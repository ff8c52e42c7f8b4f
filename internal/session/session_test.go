package session

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	errx "github.com/storefront-console/client/internal/core/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenTreatsPlaceholdersAsAbsent(t *testing.T) {
	for _, v := range []string{"", "   ", "null", "undefined"} {
		assert.False(t, NewToken(v).Present(), "value %q", v)
	}

	tok := NewToken(" abc.def ")
	assert.True(t, tok.Present())
	assert.Equal(t, "abc.def", tok.Value())
	assert.Equal(t, "<redacted>", tok.String())
	assert.Equal(t, "<absent>", Absent().String())
}

func TestRequire(t *testing.T) {
	ctx := context.Background()

	tok, err := Require(ctx, NewStatic("secret"))
	require.NoError(t, err)
	assert.Equal(t, "secret", tok.Value())

	_, err = Require(ctx, NewStatic(""))
	assert.ErrorIs(t, err, errx.ErrNoSession)

	_, err = Require(ctx, nil)
	assert.ErrorIs(t, err, errx.ErrNoSession)
}

func TestMemoryIsReadAtCallTime(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")

	_, err := Require(ctx, m)
	assert.ErrorIs(t, err, errx.ErrNoSession)

	m.Set("late-login")
	tok, err := Require(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, "late-login", tok.Value())
}

type stubGetter struct {
	val string
	err error
	key string
}

func (s *stubGetter) Get(ctx context.Context, key string) *redis.StringCmd {
	s.key = key
	return redis.NewStringResult(s.val, s.err)
}

func TestRedisSource(t *testing.T) {
	ctx := context.Background()

	t.Run("stored token", func(t *testing.T) {
		g := &stubGetter{val: "tok-1"}
		tok, err := newRedis(g, "").Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", tok.Value())
		assert.Equal(t, DefaultKey, g.key)
	})

	t.Run("missing key is absent", func(t *testing.T) {
		tok, err := newRedis(&stubGetter{err: redis.Nil}, "admin:token").Token(ctx)
		require.NoError(t, err)
		assert.False(t, tok.Present())
	})

	t.Run("store failure", func(t *testing.T) {
		_, err := newRedis(&stubGetter{err: errors.New("connection refused")}, "k").Token(ctx)
		require.Error(t, err)
		assert.Equal(t, errx.KindTransport, errx.KindOf(err))
	})
}
