// Package api is the single narrow path from the console to the storefront
// backend. Every request goes through Client.Do.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	errx "github.com/storefront-console/client/internal/core/error"
	"github.com/storefront-console/client/internal/session"
	logx "github.com/storefront-console/client/pkg/logger"
)

// maxBodyBytes caps how much of a response is read into memory.
const maxBodyBytes = 8 << 20

// Config is read from API_BASE_URL and API_TIMEOUT.
type Config struct {
	BaseURL string        `envconfig:"API_BASE_URL" default:"https://e-commerce-backend-es24.onrender.com"`
	Timeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
}

type Option func(*Client)

// WithHTTPClient replaces the transport, e.g. an httptest server's client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client issues one attempt per call and never retries. Hang prevention is
// left to the http.Client timeout.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends method to path with body encoded as JSON when non-nil and the
// bearer token attached when present. It returns the raw JSON payload of a
// success response, nil for a success response without content, or an
// *errx.Failure describing what went wrong.
func (c *Client) Do(ctx context.Context, method, path string, body any, token session.Token) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errx.Validation(fmt.Sprintf("could not encode request: %v", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errx.Transport(fmt.Errorf("build request: %w", err))
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token.Present() {
		req.Header.Set("Authorization", "Bearer "+token.Value())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logx.Warn().Err(err).Str("method", method).Str("path", path).Str("requestID", requestID).Msg("request did not reach the server")
		return nil, errx.Transport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errx.Transport(fmt.Errorf("read response: %w", err))
	}

	logx.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("requestID", requestID).
		Dur("took", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errx.Application(resp.StatusCode, string(raw))
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return nil, errx.Protocol(resp.StatusCode, string(raw), fmt.Errorf("content type %q is not JSON", resp.Header.Get("Content-Type")))
	}

	if !json.Valid(raw) {
		return nil, errx.Protocol(resp.StatusCode, string(raw), fmt.Errorf("malformed JSON body"))
	}

	return json.RawMessage(raw), nil
}

// Decode unmarshals a success payload; a shape mismatch is a protocol violation.
func Decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errx.Protocol(http.StatusOK, "", fmt.Errorf("empty payload"))
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errx.Protocol(http.StatusOK, string(raw), err)
	}
	return nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
