package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"github.com/storefront-console/client/internal/api"
	errx "github.com/storefront-console/client/internal/core/error"
	"github.com/storefront-console/client/internal/session"
	logx "github.com/storefront-console/client/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	productsPath   = "/api/products"
	categoriesPath = "/api/categories"
)

// Requester is the API client contract the store depends on.
type Requester interface {
	Do(ctx context.Context, method, path string, body any, token session.Token) (json.RawMessage, error)
}

// RefreshError is returned when a mutation committed on the backend but the
// follow-up product refresh failed. The local list is still the previous one.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "product list refresh failed: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// Committed reports whether err still means the mutation reached the backend.
func Committed(err error) bool {
	var re *RefreshError
	return err == nil || errors.As(err, &re)
}

// Store owns the product and category lists. Every mutation is a command
// followed by a full product query; the local list is never patched.
type Store struct {
	client  Requester
	session session.Source

	mu         sync.RWMutex
	products   []Product
	categories []Category
	// issued counts product loads started, applied is the newest one applied.
	issued    uint64
	applied   uint64
	catIssued uint64
	catApply  uint64
	closed    bool
	listeners []func([]Product)
}

func NewStore(client Requester, src session.Source) *Store {
	return &Store{
		client:  client,
		session: src,
	}
}

// Products returns a copy of the last fetched product list.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

// Categories returns a copy of the last fetched category list.
func (s *Store) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCategories(s.categories)
}

// Product looks a product up in the last fetched list.
func (s *Store) Product(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return cloneProducts([]Product{p})[0], true
		}
	}
	return Product{}, false
}

// OnProductsChanged registers fn to receive every freshly applied product list.
func (s *Store) OnProductsChanged(fn func([]Product)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Mount loads products and categories concurrently. Both loads run to
// completion; the first error is returned.
func (s *Store) Mount(ctx context.Context) error {
	s.mu.Lock()
	s.closed = false
	s.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error { return s.LoadProducts(ctx) })
	g.Go(func() error { return s.LoadCategories(ctx) })
	return g.Wait()
}

// Unmount stops in-flight loads from touching state.
func (s *Store) Unmount() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// LoadProducts replaces the product list with a fresh fetch. On failure the
// previous list is kept.
func (s *Store) LoadProducts(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	raw, err := s.client.Do(ctx, http.MethodGet, productsPath, nil, session.Absent())
	if err != nil {
		logx.Error().Err(err).Msg("failed to fetch products")
		return errx.Annotate(err, "failed to fetch products")
	}

	var products []Product
	if err := decodeList(raw, &products); err != nil {
		logx.Error().Err(err).Msg("failed to decode products")
		return errx.Annotate(err, "failed to fetch products")
	}

	s.mu.Lock()
	if s.closed || seq <= s.applied {
		s.mu.Unlock()
		logx.Debug().Uint64("seq", seq).Msg("dropping stale product list")
		return nil
	}
	s.applied = seq
	s.products = products
	listeners := append([]func([]Product){}, s.listeners...)
	s.mu.Unlock()

	logx.Debug().Int("count", len(products)).Msg("products refreshed")
	for _, fn := range listeners {
		fn(cloneProducts(products))
	}
	return nil
}

// LoadCategories replaces the category list with a fresh fetch.
func (s *Store) LoadCategories(ctx context.Context) error {
	s.mu.Lock()
	s.catIssued++
	seq := s.catIssued
	s.mu.Unlock()

	raw, err := s.client.Do(ctx, http.MethodGet, categoriesPath, nil, session.Absent())
	if err != nil {
		logx.Error().Err(err).Msg("failed to fetch categories")
		return errx.Annotate(err, "failed to fetch categories")
	}

	var categories []Category
	if err := decodeList(raw, &categories); err != nil {
		logx.Error().Err(err).Msg("failed to decode categories")
		return errx.Annotate(err, "failed to fetch categories")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq <= s.catApply {
		return nil
	}
	s.catApply = seq
	s.categories = categories
	return nil
}

// CreateProduct validates form, posts it and refreshes the list. The form is
// reset only after the backend accepted the product.
func (s *Store) CreateProduct(ctx context.Context, form *Form) error {
	const op = "failed to add product"

	if form == nil {
		return errx.Annotate(errx.Validation("form is required"), op)
	}

	body, err := form.request()
	if err != nil {
		return errx.Annotate(err, op)
	}

	err = s.mutate(ctx, op, func(tok session.Token) error {
		_, err := s.client.Do(ctx, http.MethodPost, productsPath, body, tok)
		return err
	})
	if Committed(err) {
		*form = Form{}
	}
	return err
}

// UpdatePrice sends a price-only update for id.
func (s *Store) UpdatePrice(ctx context.Context, id, priceText string) error {
	const op = "failed to update price"

	price, err := ParsePrice(priceText)
	if err != nil {
		return errx.Annotate(err, op)
	}

	return s.mutate(ctx, op, func(tok session.Token) error {
		_, err := s.client.Do(ctx, http.MethodPut, productPath(id), priceUpdate{Price: json.Number(price.String())}, tok)
		return err
	})
}

// DeleteProduct removes id on the backend.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.mutate(ctx, "failed to delete product", func(tok session.Token) error {
		_, err := s.client.Do(ctx, http.MethodDelete, productPath(id), nil, tok)
		return err
	})
}

// mutate runs cmd with the token read now, then refreshes products strictly
// after cmd succeeded.
func (s *Store) mutate(ctx context.Context, op string, cmd func(session.Token) error) error {
	tok, err := session.Require(ctx, s.session)
	if err != nil {
		logx.Warn().Str("op", op).Msg("mutation attempted without a session")
		return errx.Annotate(err, op)
	}

	if err := cmd(tok); err != nil {
		logx.Error().Err(err).Str("op", op).Msg("mutation rejected")
		return errx.Annotate(err, op)
	}

	if err := s.LoadProducts(ctx); err != nil {
		return &RefreshError{Err: err}
	}
	return nil
}

func productPath(id string) string {
	return productsPath + "/" + url.PathEscape(id)
}

// decodeList requires a JSON array; anything else breaks the contract.
func decodeList(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return errx.Protocol(http.StatusOK, string(raw), errors.New("expected a JSON array"))
	}
	return api.Decode(raw, v)
}
