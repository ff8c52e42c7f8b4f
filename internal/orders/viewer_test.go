package orders

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/storefront-console/client/internal/api"
	"github.com/storefront-console/client/internal/backendtest"
	errx "github.com/storefront-console/client/internal/core/error"
	"github.com/storefront-console/client/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViewer(t *testing.T, token string) (*Viewer, *backendtest.Backend) {
	t.Helper()
	b := backendtest.New(t, "customer-token")
	client := api.New(api.Config{BaseURL: b.URL(), Timeout: 5 * time.Second}, api.WithHTTPClient(b.Client()))
	return NewViewer(client, session.NewStatic(token)), b
}

func TestNoSessionIssuesNoRequests(t *testing.T) {
	v, b := newViewer(t, "")

	st := v.Mount(context.Background())

	assert.Equal(t, NoSession{}, st)
	assert.Equal(t, NoSession{}, v.State())
	assert.Empty(t, b.Requests())
}

func TestEmptyOrders(t *testing.T) {
	v, b := newViewer(t, "customer-token")
	b.SetOrders(`[]`)

	assert.Equal(t, Empty{}, v.Mount(context.Background()))

	reqs := b.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/orders/my", reqs[0].Path)
	assert.Equal(t, "Bearer customer-token", reqs[0].Authorization)
}

func TestPopulatedOrders(t *testing.T) {
	v, b := newViewer(t, "customer-token")
	b.SetOrders(`[{
		"_id":"64f0c2a9e1d3b7a5c9123456",
		"products":[{"product":{"_id":"a","name":"Pen"},"quantity":2},{"product":"b","quantity":1}],
		"status":"shipped",
		"total":7.5,
		"createdAt":"2024-03-01T10:00:00Z"
	}]`)

	st := v.Mount(context.Background())

	p, ok := st.(Populated)
	require.True(t, ok, "got %#v", st)
	require.Len(t, p.Orders, 1)
	o := p.Orders[0]
	assert.Equal(t, "123456", o.ShortID())
	assert.Equal(t, "shipped", o.Status)
	assert.Equal(t, "7.5", o.Total.String())
	assert.Equal(t, "Pen", o.Items[0].Product.Name)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "b", o.Items[1].Product.ID)
	assert.True(t, o.CreatedAt.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestNonListPayloadShowsServerMessage(t *testing.T) {
	v, b := newViewer(t, "customer-token")
	b.SetOrders(`{"msg":"Unauthorized"}`)

	assert.Equal(t, Failed{Message: "Unauthorized"}, v.Mount(context.Background()))
}

func TestNonListPayloadMessageIsBounded(t *testing.T) {
	v, b := newViewer(t, "customer-token")
	b.SetOrders(`{"msg":"` + strings.Repeat("x", 5000) + `"}`)

	assert.Equal(t, Failed{Message: strings.Repeat("x", errx.PreviewLimit) + "…"}, v.Mount(context.Background()))
}

func TestNonListPayloadWithoutMessage(t *testing.T) {
	v, b := newViewer(t, "customer-token")
	b.SetOrders(`{"orders":null}`)

	assert.Equal(t, Failed{Message: FailureMessage}, v.Mount(context.Background()))
}

func TestRejectedTokenShowsServerMessage(t *testing.T) {
	v, _ := newViewer(t, "expired-token")

	assert.Equal(t, Failed{Message: "Unauthorized"}, v.Mount(context.Background()))
}

func TestTransportFailure(t *testing.T) {
	v, b := newViewer(t, "customer-token")
	b.Close()

	assert.Equal(t, Failed{Message: errx.TransportFailureMessage}, v.Mount(context.Background()))
}

type blockingClient struct {
	started chan struct{}
	release chan string
}

func (c *blockingClient) Do(ctx context.Context, method, path string, body any, token session.Token) (json.RawMessage, error) {
	close(c.started)
	return json.RawMessage(<-c.release), nil
}

func TestLoadingThenUnmountDropsResponse(t *testing.T) {
	client := &blockingClient{started: make(chan struct{}), release: make(chan string)}
	v := NewViewer(client, session.NewStatic("customer-token"))

	done := make(chan State, 1)
	go func() { done <- v.Mount(context.Background()) }()
	<-client.started

	assert.Equal(t, Loading{}, v.State())
	v.Unmount()
	client.release <- `[]`
	<-done

	assert.Equal(t, Loading{}, v.State(), "state is frozen after unmount")
}

func TestDecodeOnlyArraysAreOrders(t *testing.T) {
	assert.Equal(t, Empty{}, decode(json.RawMessage(" []")))
	assert.Equal(t, Failed{Message: "nope"}, decode(json.RawMessage(`{"message":"nope"}`)))
	assert.Equal(t, Failed{Message: FailureMessage}, decode(json.RawMessage(`"text"`)))
	assert.Equal(t, Failed{Message: FailureMessage}, decode(nil))
	assert.Equal(t, Failed{Message: FailureMessage}, decode(json.RawMessage(`[{"_id":5}]`)))
}

func TestStatesAreExclusive(t *testing.T) {
	for _, st := range []State{NoSession{}, Loading{}, Failed{}, Empty{}, Populated{}} {
		matches := 0
		for _, probe := range []func(State) bool{
			func(s State) bool { _, ok := s.(NoSession); return ok },
			func(s State) bool { _, ok := s.(Loading); return ok },
			func(s State) bool { _, ok := s.(Failed); return ok },
			func(s State) bool { _, ok := s.(Empty); return ok },
			func(s State) bool { _, ok := s.(Populated); return ok },
		} {
			if probe(st) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "%T", st)
	}
}
