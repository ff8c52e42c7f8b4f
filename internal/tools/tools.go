// Package tools exposes the loaded catalog as eino tools so an assistant can
// answer product questions from the same list the console shows.
package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/storefront-console/client/internal/catalog"
)

// ProductSource is a read-only view of the product store.
type ProductSource interface {
	Products() []catalog.Product
	Product(id string) (catalog.Product, bool)
}

// CatalogTools returns every catalog tool backed by src.
func CatalogTools(src ProductSource) []tool.InvokableTool {
	return []tool.InvokableTool{
		newSearchProductTool(src),
		newGetProductDetailsTool(src),
	}
}

// ByName finds a tool by its schema name.
func ByName(ctx context.Context, list []tool.InvokableTool, name string) (tool.InvokableTool, error) {
	for _, t := range list {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, err
		}
		if info.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("tool %q not registered", name)
}
