package catalog

import (
	"github.com/shopspring/decimal"
	"github.com/storefront-console/client/internal/core"
)

// Product is the client's cached copy of a backend product.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    core.Ref        `json:"category"`
	Stock       *int            `json:"stock,omitempty"`
}

// PriceText is the price as the edit field shows it.
func (p Product) PriceText() string {
	return p.Price.String()
}

// Category is read-only here; it feeds the creation form's selector.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		if p.Stock != nil {
			stock := *p.Stock
			p.Stock = &stock
		}
		out[i] = p
	}
	return out
}

func cloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	copy(out, in)
	return out
}
