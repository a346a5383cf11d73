package storefront

import (
	"context"
	"strconv"
	"strings"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
)

// Tools returns the storefront capabilities registered in the assistant's
// tool table: order status lookup and product search.
func Tools(svc *Service) []assistant.Tool {
	return []assistant.Tool{
		{
			Capability: assistant.Capability{
				Name:        "order_status",
				Description: "Retrieve order status, date, customer and total by order id or billing email",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"order_id": map[string]any{"type": "string", "description": "The ID of the order to retrieve"},
						"email":    map[string]any{"type": "string", "description": "The billing email on the order"},
					},
				},
			},
			Invoke: func(ctx context.Context, args map[string]any) (string, error) {
				q := OrderQuery{Email: stringArg(args, "email")}
				if raw := stringArg(args, "order_id"); raw != "" {
					id, err := strconv.ParseInt(raw, 10, 64)
					if err == nil {
						q.OrderID = id
					}
				}
				return svc.OrderStatusText(ctx, q)
			},
		},
		{
			Capability: assistant.Capability{
				Name:        "product_search",
				Description: "Search the product catalog by title substring and return titles, prices and links",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query": map[string]any{"type": "string", "description": "The product name to search for"},
					},
					"required": []string{"query"},
				},
			},
			Invoke: func(ctx context.Context, args map[string]any) (string, error) {
				return svc.ProductSearchText(ctx, stringArg(args, "query"))
			},
		},
	}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
