// Package orders shows the logged-in customer their own orders. It loads once
// per mount and never mutates anything.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"

	errx "github.com/storefront-console/client/internal/core/error"
	"github.com/storefront-console/client/internal/session"
	logx "github.com/storefront-console/client/pkg/logger"
)

const (
	myOrdersPath = "/orders/my"

	NoSessionMessage = "Login to view orders"
	FailureMessage   = "Failed to fetch orders"
)

// State is exactly one of NoSession, Loading, Failed, Empty or Populated.
type State interface {
	isState()
}

type (
	NoSession struct{}
	Loading   struct{}
	Failed    struct{ Message string }
	Empty     struct{}
	Populated struct{ Orders []Order }
)

func (NoSession) isState() {}
func (Loading) isState()   {}
func (Failed) isState()    {}
func (Empty) isState()     {}
func (Populated) isState() {}

type Requester interface {
	Do(ctx context.Context, method, path string, body any, token session.Token) (json.RawMessage, error)
}

type Viewer struct {
	client  Requester
	session session.Source

	mu         sync.Mutex
	state      State
	mounted    bool
	generation uint64
}

func NewViewer(client Requester, src session.Source) *Viewer {
	return &Viewer{
		client:  client,
		session: src,
		state:   Loading{},
	}
}

func (v *Viewer) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Mount checks the session and, when there is one, fetches the orders. It
// returns the state it settled on. A response that arrives after Unmount or
// after a newer Mount is dropped.
func (v *Viewer) Mount(ctx context.Context) State {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.mounted = true
	v.mu.Unlock()

	tok, err := v.session.Token(ctx)
	if err != nil {
		return v.settle(gen, Failed{Message: errx.Message(err)})
	}
	if !tok.Present() {
		return v.settle(gen, NoSession{})
	}

	v.settle(gen, Loading{})

	raw, err := v.client.Do(ctx, http.MethodGet, myOrdersPath, nil, tok)
	if err != nil {
		logx.Error().Err(err).Msg("failed to fetch orders")
		return v.settle(gen, Failed{Message: failureText(err)})
	}
	return v.settle(gen, decode(raw))
}

// Unmount makes the viewer ignore responses still in flight.
func (v *Viewer) Unmount() {
	v.mu.Lock()
	v.mounted = false
	v.mu.Unlock()
}

func (v *Viewer) settle(gen uint64, next State) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted || gen != v.generation {
		return v.state
	}
	v.state = next
	return next
}

// decode maps a success payload: a list means orders, anything else is the
// backend explaining why it has none for us.
func decode(raw json.RawMessage) State {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var list []Order
		if err := json.Unmarshal(raw, &list); err != nil {
			logx.Error().Err(err).Msg("failed to decode orders")
			return Failed{Message: FailureMessage}
		}
		if len(list) == 0 {
			return Empty{}
		}
		return Populated{Orders: list}
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err == nil {
		if msg := errx.MessageField(doc); msg != "" {
			return Failed{Message: msg}
		}
	}
	return Failed{Message: FailureMessage}
}

// failureText prefers what the server said; transport and protocol problems
// get their own display text, unknown errors the generic fallback.
func failureText(err error) string {
	switch errx.KindOf(err) {
	case errx.KindApplication, errx.KindTransport, errx.KindProtocol:
		return errx.Message(err)
	default:
		return FailureMessage
	}
}
