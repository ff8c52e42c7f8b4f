package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type GetProductDetailsInput struct {
	ProductID string `json:"product_id"`
}

type GetProductDetailsOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Stock       *int   `json:"stock,omitempty"`
}

func newGetProductDetailsTool(src ProductSource) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: "get_product_details",
			Desc: "Get the full record of one catalog product: description, price, image URL, category and stock when tracked.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     "string",
					Desc:     "Product ID taken from search_product results. Must match exactly.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *GetProductDetailsInput) (*GetProductDetailsOutput, error) {
			if in.ProductID == "" {
				return nil, fmt.Errorf("product_id is required")
			}

			p, ok := src.Product(in.ProductID)
			if !ok {
				return nil, fmt.Errorf("product not found: %s", in.ProductID)
			}

			return &GetProductDetailsOutput{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.PriceText(),
				Image:       p.Image,
				Category:    p.Category.String(),
				Stock:       p.Stock,
			}, nil
		},
	)
}
