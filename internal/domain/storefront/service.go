package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

const (
	defaultOrderLimit   = 5
	defaultProductLimit = 10
)

// statusLabels maps raw order status codes to customer-friendly wording.
var statusLabels = map[string]string{
	"wc-pending":    "Pending payment",
	"wc-processing": "Processing",
	"wc-on-hold":    "On hold",
	"wc-completed":  "Completed",
	"wc-cancelled":  "Cancelled",
	"wc-refunded":   "Refunded",
	"wc-failed":     "Failed",
}

// Config holds storefront presentation settings.
type Config struct {
	BaseURL string
}

// Service wraps the read-only storefront lookups with text formatting used
// by the tool table and the CLI.
type Service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
}

// NewService constructs the storefront service.
func NewService(cfg Config, repo Repository, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With("component", "storefront.service"),
	}
}

// Orders returns orders matching the query with readable status labels.
func (s *Service) Orders(ctx context.Context, q OrderQuery) ([]Order, error) {
	if q.IsEmpty() {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "provide either an email address or an order id", nil)
	}
	orders, err := s.repo.FindOrders(ctx, q, defaultOrderLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "order lookup failed", err)
	}
	for i := range orders {
		orders[i].Status = StatusLabel(orders[i].Status)
	}
	return orders, nil
}

// LatestOrders returns the most recent orders.
func (s *Service) LatestOrders(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = defaultProductLimit
	}
	orders, err := s.repo.LatestOrders(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "latest order lookup failed", err)
	}
	for i := range orders {
		orders[i].Status = StatusLabel(orders[i].Status)
	}
	return orders, nil
}

// Products searches the catalog by title substring.
func (s *Service) Products(ctx context.Context, name string) ([]Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "provide a product name to search for", nil)
	}
	products, err := s.repo.SearchProducts(ctx, name, defaultProductLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "product search failed", err)
	}
	for i := range products {
		products[i].Link = ProductLink(s.cfg.BaseURL, products[i].Title)
	}
	return products, nil
}

// OrderStatusText renders order lookup results as plain text for tool
// output and the CLI.
func (s *Service) OrderStatusText(ctx context.Context, q OrderQuery) (string, error) {
	orders, err := s.Orders(ctx, q)
	if err != nil {
		return "", err
	}
	if len(orders) == 0 {
		if q.OrderID != 0 {
			return fmt.Sprintf("No order found with ID %d.", q.OrderID), nil
		}
		return fmt.Sprintf("No orders found for email %s.", q.Email), nil
	}
	lines := []string{"Here are the order details:"}
	for _, o := range orders {
		lines = append(lines,
			fmt.Sprintf("Order #%d", o.ID),
			"Date: "+o.Date.Format("2006-01-02 15:04:05"),
			"Customer: "+o.Customer,
			"Total: "+o.Total,
			"Status: "+o.Status,
			"---",
		)
	}
	return strings.Join(lines, "\n"), nil
}

// ProductSearchText renders product search results as plain text.
func (s *Service) ProductSearchText(ctx context.Context, name string) (string, error) {
	products, err := s.Products(ctx, name)
	if err != nil {
		return "", err
	}
	if len(products) == 0 {
		return fmt.Sprintf("No products found with the name %q.", name), nil
	}
	lines := []string{"Here are the products that match your search:"}
	for _, p := range products {
		lines = append(lines,
			"Product: "+p.Title,
			"Price: "+p.Price,
			"Link: "+p.Link,
			"---",
		)
	}
	return strings.Join(lines, "\n"), nil
}

// StatusLabel translates a raw status code; unknown codes pass through.
func StatusLabel(raw string) string {
	if label, ok := statusLabels[raw]; ok {
		return label
	}
	return raw
}

// ProductLink derives the storefront permalink from a product title.
func ProductLink(baseURL, title string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
	return strings.TrimRight(baseURL, "/") + "/product/" + slug
}
