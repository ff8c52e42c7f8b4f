package catalog

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	errx "github.com/storefront-console/client/internal/core/error"
)

// Form holds the raw text of the product creation form.
type Form struct {
	Name        string
	Price       string
	Description string
	Image       string
	Category    string
	Stock       string
}

// createRequest is the POST /api/products body. Price and stock go out as
// JSON numbers; a nil Stock drops the field entirely.
type createRequest struct {
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	Stock       *int        `json:"stock,omitempty"`
}

type priceUpdate struct {
	Price json.Number `json:"price"`
}

// request validates the form and builds the request body.
func (f Form) request() (*createRequest, error) {
	required := []struct {
		label string
		value string
	}{
		{"name", f.Name},
		{"price", f.Price},
		{"description", f.Description},
		{"image", f.Image},
		{"category", f.Category},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, errx.Validation(field.label + " is required")
		}
	}

	price, err := ParsePrice(f.Price)
	if err != nil {
		return nil, err
	}

	req := &createRequest{
		Name:        strings.TrimSpace(f.Name),
		Price:       json.Number(price.String()),
		Description: strings.TrimSpace(f.Description),
		Image:       strings.TrimSpace(f.Image),
		Category:    strings.TrimSpace(f.Category),
	}

	if s := strings.TrimSpace(f.Stock); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil || stock < 0 {
			return nil, errx.Validation("stock must be a whole number of zero or more")
		}
		req.Stock = &stock
	}

	return req, nil
}

// maxPriceExponent bounds the decimal exponent so rendering a price can
// never expand into millions of digits.
const maxPriceExponent = 18

// maxPrice is the first value rejected as too large.
var maxPrice = decimal.New(1, 12)

// ParsePrice accepts a non-negative decimal number below maxPrice.
func ParsePrice(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, errx.Validation("price is required")
	}
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, errx.Validation("price must be a number")
	}
	if exp := price.Exponent(); exp > maxPriceExponent || exp < -maxPriceExponent {
		return decimal.Zero, errx.Validation("price is out of range")
	}
	if price.IsNegative() {
		return decimal.Zero, errx.Validation("price cannot be negative")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, errx.Validation("price is out of range")
	}
	return price, nil
}
