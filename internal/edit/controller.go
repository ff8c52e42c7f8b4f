// Package edit tracks inline price editing for the product list. At most one
// product is being edited at any time.
package edit

import (
	"context"
	"errors"
	"sync"

	"github.com/storefront-console/client/internal/catalog"
	logx "github.com/storefront-console/client/pkg/logger"
)

var (
	ErrNotEditing     = errors.New("no product is being edited")
	ErrUnknownProduct = errors.New("product is not in the current list")
)

// State is either Viewing or Editing.
type State interface {
	isState()
}

// Viewing means no row is in edit mode.
type Viewing struct{}

// Editing carries the product being edited and the unsaved price text.
type Editing struct {
	ProductID    string
	PendingPrice string
}

func (Viewing) isState() {}
func (Editing) isState() {}

// Catalog is what the controller needs from the product store. It only reads
// products and delegates saving; the list itself is never touched here.
type Catalog interface {
	Product(id string) (catalog.Product, bool)
	UpdatePrice(ctx context.Context, id, priceText string) error
	OnProductsChanged(fn func([]catalog.Product))
}

type Controller struct {
	catalog Catalog

	mu    sync.Mutex
	state State
}

// NewController subscribes to product refreshes so an edit never outlives
// its product.
func NewController(c Catalog) *Controller {
	ctrl := &Controller{
		catalog: c,
		state:   Viewing{},
	}
	c.OnProductsChanged(ctrl.Reconcile)
	return ctrl
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StateFor is the state of a single row.
func (c *Controller) StateFor(productID string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.state.(Editing); ok && e.ProductID == productID {
		return e
	}
	return Viewing{}
}

// Edit puts productID in edit mode with its current price as pending text.
// Any other row being edited is cancelled.
func (c *Controller) Edit(productID string) error {
	p, ok := c.catalog.Product(productID)
	if !ok {
		return ErrUnknownProduct
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.state.(Editing); ok && prev.ProductID != productID {
		logx.Debug().Str("productID", prev.ProductID).Msg("discarding edit in favour of another row")
	}
	c.state = Editing{ProductID: productID, PendingPrice: p.PriceText()}
	return nil
}

// SetPending records what the user typed.
func (c *Controller) SetPending(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.state.(Editing)
	if !ok {
		return ErrNotEditing
	}
	e.PendingPrice = text
	c.state = e
	return nil
}

// Cancel discards the pending text.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.state = Viewing{}
	c.mu.Unlock()
}

// Save submits the pending price. The lock is not held during the request,
// so the user may cancel or start another edit meanwhile; a success then
// only closes the edit if that same product is still being edited. On
// failure the edit and the typed text are kept.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	e, ok := c.state.(Editing)
	c.mu.Unlock()
	if !ok {
		return ErrNotEditing
	}

	err := c.catalog.UpdatePrice(ctx, e.ProductID, e.PendingPrice)
	if !catalog.Committed(err) {
		return err
	}

	c.mu.Lock()
	if cur, ok := c.state.(Editing); ok && cur.ProductID == e.ProductID {
		c.state = Viewing{}
	}
	c.mu.Unlock()
	return err
}

// Reconcile clears the edit when its product is no longer listed.
func (c *Controller) Reconcile(products []catalog.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.state.(Editing)
	if !ok {
		return
	}
	for _, p := range products {
		if p.ID == e.ProductID {
			return
		}
	}
	logx.Info().Str("productID", e.ProductID).Msg("edited product disappeared, leaving edit mode")
	c.state = Viewing{}
}
