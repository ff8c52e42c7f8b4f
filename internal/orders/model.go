package orders

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront-console/client/internal/core"
)

// Order is read-only on the client.
type Order struct {
	ID        string          `json:"_id"`
	Items     []LineItem      `json:"products"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ShortID is the tail of the identifier customers see as the order number.
func (o Order) ShortID() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[len(o.ID)-6:]
}

type LineItem struct {
	Product  core.Ref `json:"product"`
	Quantity int      `json:"quantity"`
}
