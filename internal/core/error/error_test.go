package errx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"msg field", `{"msg":"Unauthorized"}`, "Unauthorized"},
		{"message field", `{"message":"Product exists"}`, "Product exists"},
		{"error field", `{"error":"bad category"}`, "bad category"},
		{"object without message", `{"code":7}`, `{"code":7}`},
		{"plain text", "  Service Unavailable \n", "Service Unavailable"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ServerMessage(tt.body))
		})
	}
}

func TestPreviewIsBounded(t *testing.T) {
	long := strings.Repeat("é", PreviewLimit+50)

	got := Preview(long)

	assert.Equal(t, PreviewLimit+1, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.Equal(t, "short", Preview("short"))
}

func TestApplicationFailure(t *testing.T) {
	f := Application(http.StatusBadRequest, `{"msg":"name is taken"}`)

	assert.Equal(t, KindApplication, f.Kind)
	assert.Equal(t, http.StatusBadRequest, f.Status)
	assert.Equal(t, "name is taken", f.Display())

	bare := Application(http.StatusInternalServerError, "")
	assert.Equal(t, "request failed with status 500 Internal Server Error", bare.Display())
}

func TestApplicationMessageIsBounded(t *testing.T) {
	long := strings.Repeat("x", 5000)

	f := Application(http.StatusInternalServerError, `{"msg":"`+long+`"}`)

	assert.Equal(t, strings.Repeat("x", PreviewLimit)+"…", f.Display())
	assert.Equal(t, strings.Repeat("x", PreviewLimit)+"…", MessageField(map[string]any{"message": long}))
}

func TestProtocolFailureCarriesPreview(t *testing.T) {
	f := Protocol(http.StatusOK, "<html>"+strings.Repeat("x", 500), errors.New("not json"))

	assert.Equal(t, KindProtocol, f.Kind)
	assert.LessOrEqual(t, len([]rune(f.Body)), PreviewLimit+1)
	assert.True(t, strings.HasPrefix(f.Display(), ProtocolFailureMessage+": <html>"))
}

func TestAnnotateAndMessage(t *testing.T) {
	base := Validation("price must be a number")

	err := Annotate(base, "failed to update price")

	assert.Equal(t, "failed to update price: price must be a number", Message(err))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "", base.Op, "annotating must not modify the original")

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, "failed to update price: price must be a number", Message(wrapped))

	assert.Equal(t, GenericFailureMessage, Message(errors.New("boom")))
	assert.Equal(t, "", Message(nil))
	assert.Nil(t, Annotate(nil, "op"))
}

func TestNoSessionMatchesSentinel(t *testing.T) {
	err := Annotate(NoSession(), "failed to delete product")

	assert.ErrorIs(t, err, ErrNoSession)

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, KindValidation, f.Kind)
	assert.Equal(t, "failed to delete product: "+NoSessionMessage, f.Display())
}

func TestWrapRedis(t *testing.T) {
	assert.Nil(t, WrapRedis(nil))
	assert.ErrorIs(t, WrapRedis(redis.Nil), redis.Nil)

	err := WrapRedis(errors.New("dial tcp: refused"))
	assert.Equal(t, KindTransport, KindOf(err))
	assert.Equal(t, SessionStoreMessage, Message(err))
}
