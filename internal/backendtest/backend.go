// Package backendtest runs an in-process imitation of the storefront REST
// backend for tests. It records every request so tests can assert on the wire.
package backendtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Product mirrors the backend document. Price stays a raw number so tests can
// compare what was actually sent.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       json.Number     `json:"price"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Category    json.RawMessage `json:"category,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Authorization string
	Body          []byte
}

// Fault replaces the next response for a route.
type Fault struct {
	Status      int
	ContentType string
	Body        string
}

type Backend struct {
	// Token is the only bearer token accepted on protected routes.
	Token string

	server *httptest.Server

	mu         sync.Mutex
	products   []Product
	categories []Category
	orders     json.RawMessage
	requests   []Request
	faults     map[string][]Fault
}

// New starts a backend; it is closed when the test ends.
func New(t interface{ Cleanup(func()) }, token string) *Backend {
	b := &Backend{
		Token:  token,
		orders: json.RawMessage("[]"),
		faults: map[string][]Fault{},
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Use(b.inject)
	r.Get("/api/products", b.listProducts)
	r.Get("/api/categories", b.listCategories)
	r.With(b.auth).Post("/api/products", b.createProduct)
	r.With(b.auth).Put("/api/products/{id}", b.updateProduct)
	r.With(b.auth).Delete("/api/products/{id}", b.deleteProduct)
	r.With(b.auth).Get("/orders/my", b.myOrders)

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.server.URL
}

func (b *Backend) Client() *http.Client {
	return b.server.Client()
}

// Close shuts the server down early, e.g. to provoke transport failures.
func (b *Backend) Close() {
	b.server.Close()
}

func (b *Backend) SetProducts(products ...Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = append([]Product(nil), products...)
}

func (b *Backend) Products() []Product {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Product{}, b.products...)
}

func (b *Backend) SetCategories(categories ...Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.categories = append([]Category(nil), categories...)
}

// SetOrders sets the raw /orders/my success payload.
func (b *Backend) SetOrders(raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = json.RawMessage(raw)
}

// Fail queues a fault for the next "METHOD /path" request.
func (b *Backend) Fail(method, path string, f Fault) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	b.faults[key] = append(b.faults[key], f)
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Count returns how many "METHOD /path" requests were received.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		b.mu.Lock()
		queue := b.faults[key]
		var f *Fault
		if len(queue) > 0 {
			f = &queue[0]
			b.faults[key] = queue[1:]
		}
		b.mu.Unlock()

		if f == nil {
			next.ServeHTTP(w, r)
			return
		}
		ct := f.ContentType
		if ct == "" {
			ct = "application/json"
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(f.Status)
		_, _ = io.WriteString(w, f.Body)
	})
}

func (b *Backend) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) listProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, b.Products())
}

func (b *Backend) listCategories(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]Category{}, b.categories...))
}

func (b *Backend) createProduct(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid product"})
		return
	}
	p.ID = uuid.NewString()

	b.mu.Lock()
	b.products = append(b.products, p)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch struct {
		Price *json.Number `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "invalid update"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			if patch.Price != nil {
				b.products[i].Price = *patch.Price
			}
			writeJSON(w, http.StatusOK, b.products[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"msg": "Product not found"})
}

func (b *Backend) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			b.products = append(b.products[:i], b.products[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"msg": "Product deleted"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"msg": "Product not found"})
}

func (b *Backend) myOrders(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	raw := b.orders
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
