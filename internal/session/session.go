// Package session reads the externally managed bearer token. Nothing in this
// module creates, refreshes or invalidates a token; sources only report what
// is currently stored, and an absent token is a normal state.
package session

import (
	"context"
	"strings"
	"sync"

	errx "github.com/storefront-console/client/internal/core/error"
)

// Token is a bearer token or its absence. The zero value is absent.
type Token struct {
	value string
}

// NewToken normalises a stored value. Blank strings and the "null" /
// "undefined" placeholders browsers leave behind count as absent.
func NewToken(v string) Token {
	v = strings.TrimSpace(v)
	switch v {
	case "", "null", "undefined":
		return Token{}
	}
	return Token{value: v}
}

// Absent returns the token that means "nobody is logged in".
func Absent() Token {
	return Token{}
}

func (t Token) Present() bool {
	return t.value != ""
}

// Value returns the raw token, empty when absent.
func (t Token) Value() string {
	return t.value
}

// String never leaks the credential into logs.
func (t Token) String() string {
	if !t.Present() {
		return "<absent>"
	}
	return "<redacted>"
}

// Source looks up the current token. Implementations are read on every call so
// a token that changes between page load and action time is honoured.
type Source interface {
	Token(ctx context.Context) (Token, error)
}

// Require returns the current token or a validation failure wrapping
// errx.ErrNoSession when none is stored.
func Require(ctx context.Context, src Source) (Token, error) {
	if src == nil {
		return Absent(), errx.NoSession()
	}
	tok, err := src.Token(ctx)
	if err != nil {
		return Absent(), err
	}
	if !tok.Present() {
		return Absent(), errx.NoSession()
	}
	return tok, nil
}

// Static always reports the same token, typically SESSION_TOKEN.
type Static Token

func NewStatic(v string) Static {
	return Static(NewToken(v))
}

func (s Static) Token(context.Context) (Token, error) {
	return Token(s), nil
}

// Memory is a token holder owned by whoever performs login and logout. The
// console only reads it through Source.
type Memory struct {
	mu  sync.RWMutex
	tok Token
}

func NewMemory(v string) *Memory {
	return &Memory{tok: NewToken(v)}
}

func (m *Memory) Token(context.Context) (Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tok, nil
}

// Set replaces the stored token; an empty value logs the user out.
func (m *Memory) Set(v string) {
	m.mu.Lock()
	m.tok = NewToken(v)
	m.mu.Unlock()
}
