package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/storefront-console/client/internal/catalog"
)

const (
	defaultMaxResults = 10
	maxResultsLimit   = 20
)

// ===================================
// Search Product Tool
// ===================================

type SearchProductInput struct {
	Query      string `json:"query"`
	Category   string `json:"category,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

type SearchProductOutput struct {
	Products []ProductSummary `json:"products"`
	Total    int              `json:"total"`
}

type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	InStock  *bool  `json:"in_stock,omitempty"`
}

func summarize(p catalog.Product) ProductSummary {
	s := ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.PriceText(),
		Category: p.Category.String(),
	}
	if p.Stock != nil {
		in := *p.Stock > 0
		s.InStock = &in
	}
	return s
}

func newSearchProductTool(src ProductSource) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: "search_product",
			Desc: "Search the storefront catalog as last loaded by the admin console. Matches the keywords against product name, description and category. Returns ID, name, price and stock availability.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Keywords to match, e.g. pen, notebook, a brand name.",
					Required: true,
				},
				"category": {
					Type: "string",
					Desc: "Optional category id or name to restrict the search to.",
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of products to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *SearchProductInput) (*SearchProductOutput, error) {
			query := strings.ToLower(strings.TrimSpace(in.Query))
			if query == "" {
				return nil, fmt.Errorf("query is required")
			}

			limit := in.MaxResults
			if limit <= 0 {
				limit = defaultMaxResults
			}
			if limit > maxResultsLimit {
				limit = maxResultsLimit
			}

			matched := []ProductSummary{}
			for _, p := range src.Products() {
				if in.Category != "" &&
					!strings.EqualFold(p.Category.ID, in.Category) &&
					!strings.EqualFold(p.Category.Name, in.Category) {
					continue
				}
				if strings.Contains(strings.ToLower(p.Name), query) ||
					strings.Contains(strings.ToLower(p.Description), query) ||
					strings.Contains(strings.ToLower(p.Category.String()), query) {
					matched = append(matched, summarize(p))
				}
			}

			if len(matched) > limit {
				matched = matched[:limit]
			}

			return &SearchProductOutput{
				Products: matched,
				Total:    len(matched),
			}, nil
		},
	)
}
