package storefrontrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/silkmart/support-assistant/internal/domain/storefront"
)

type orderEntry struct {
	order storefront.Order
	email string
}

// MemoryRepository is an in-memory storefront.Repository used when no shop
// database is configured and in tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	orders   []orderEntry
	products []storefront.Product
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// AddOrder seeds an order with its billing email.
func (r *MemoryRepository) AddOrder(order storefront.Order, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, orderEntry{order: order, email: email})
}

// AddProduct seeds a catalog entry.
func (r *MemoryRepository) AddProduct(product storefront.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, product)
}

// FindOrders implements storefront.Repository.
func (r *MemoryRepository) FindOrders(_ context.Context, q storefront.OrderQuery, limit int) ([]storefront.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []storefront.Order
	for _, entry := range r.orders {
		if q.OrderID != 0 && entry.order.ID != q.OrderID {
			continue
		}
		if q.Email != "" && !strings.EqualFold(entry.email, q.Email) {
			continue
		}
		out = append(out, entry.order)
	}
	sortOrdersByDateDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// LatestOrders implements storefront.Repository.
func (r *MemoryRepository) LatestOrders(_ context.Context, limit int) ([]storefront.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]storefront.Order, 0, len(r.orders))
	for _, entry := range r.orders {
		out = append(out, entry.order)
	}
	sortOrdersByDateDesc(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SearchProducts implements storefront.Repository.
func (r *MemoryRepository) SearchProducts(_ context.Context, title string, limit int) ([]storefront.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(title)
	var out []storefront.Product
	for _, product := range r.products {
		if strings.Contains(strings.ToLower(product.Title), needle) {
			out = append(out, product)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortOrdersByDateDesc(orders []storefront.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date.After(orders[j].Date)
	})
}

var _ storefront.Repository = (*MemoryRepository)(nil)
