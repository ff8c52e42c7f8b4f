// Package view renders console state as plain text lines.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/storefront-console/client/internal/catalog"
	errx "github.com/storefront-console/client/internal/core/error"
	"github.com/storefront-console/client/internal/edit"
	"github.com/storefront-console/client/internal/orders"
)

const (
	CategoryPlaceholder = "Select Category"
	LoadingOrders       = "Loading orders..."
	NoOrders            = "No orders yet."
	OrdersHeading       = "Your Orders"

	dateLayout = "2006-01-02 15:04:05"
)

// RowStater reports the edit state of a product row.
type RowStater interface {
	StateFor(productID string) edit.State
}

// ProductRow renders one product, in edit mode when st says so.
func ProductRow(p catalog.Product, st edit.State) string {
	if e, ok := st.(edit.Editing); ok && e.ProductID == p.ID {
		return fmt.Sprintf("%s - $[%s] [Save] [Cancel] [Delete]", p.Name, e.PendingPrice)
	}
	return fmt.Sprintf("%s - $%s [Edit] [Delete]", p.Name, p.PriceText())
}

// Products renders the admin product list.
func Products(products []catalog.Product, rows RowStater) []string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, ProductRow(p, rows.StateFor(p.ID)))
	}
	return lines
}

// CategoryOptions renders the creation form's selector.
func CategoryOptions(categories []catalog.Category) []string {
	lines := []string{CategoryPlaceholder}
	for _, c := range categories {
		lines = append(lines, fmt.Sprintf("%s (%s)", c.Name, c.ID))
	}
	return lines
}

// Orders renders whichever order viewer state is current.
func Orders(st orders.State) []string {
	switch s := st.(type) {
	case orders.NoSession:
		return []string{orders.NoSessionMessage}
	case orders.Loading:
		return []string{LoadingOrders}
	case orders.Failed:
		return []string{s.Message}
	case orders.Empty:
		return []string{NoOrders}
	case orders.Populated:
		lines := []string{OrdersHeading}
		for _, o := range s.Orders {
			lines = append(lines,
				"Order #"+o.ShortID(),
				"Status: "+o.Status,
			)
			for _, item := range o.Items {
				lines = append(lines, fmt.Sprintf("  %s x %d", item.Product, item.Quantity))
			}
			lines = append(lines,
				"Total: $"+o.Total.String(),
				"Date: "+o.CreatedAt.Local().Format(dateLayout),
			)
		}
		return lines
	default:
		return []string{orders.FailureMessage}
	}
}

// Notice is the message shown for a failed action.
func Notice(err error) string {
	return errx.Message(err)
}

// Write prints lines to w, one per line.
func Write(w io.Writer, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
