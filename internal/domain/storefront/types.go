package storefront

import (
	"context"
	"time"
)

// Order is a read-only view of a storefront order.
type Order struct {
	ID       int64     `json:"id"`
	Status   string    `json:"status"`
	Date     time.Time `json:"date"`
	Customer string    `json:"customer"`
	Total    string    `json:"total"`
}

// Product is a read-only catalog entry.
type Product struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
	Link  string `json:"link,omitempty"`
}

// OrderQuery selects orders by id, billing email, or both.
type OrderQuery struct {
	OrderID int64
	Email   string
}

// IsEmpty reports whether the query has no selector at all.
func (q OrderQuery) IsEmpty() bool {
	return q.OrderID == 0 && q.Email == ""
}

// Repository performs read-only, parameter-bound lookups against the
// storefront database. Implementations must never interpolate user input
// into SQL text.
type Repository interface {
	FindOrders(ctx context.Context, q OrderQuery, limit int) ([]Order, error)
	LatestOrders(ctx context.Context, limit int) ([]Order, error)
	SearchProducts(ctx context.Context, title string, limit int) ([]Product, error)
}
