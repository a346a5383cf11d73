package storefrontrepo

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/silkmart/support-assistant/internal/domain/storefront"
)

// PostgresRepository reads orders and products from a WordPress-style shop
// schema. Every query binds user input as parameters; the repository never
// builds SQL from raw strings.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderSelect = `
	SELECT p.id, p.post_status, p.post_date,
		MAX(CASE WHEN m.meta_key = '_billing_first_name' THEN m.meta_value END) AS first_name,
		MAX(CASE WHEN m.meta_key = '_billing_last_name' THEN m.meta_value END) AS last_name,
		MAX(CASE WHEN m.meta_key = '_order_total' THEN m.meta_value END) AS total
	FROM wp_posts p
	JOIN wp_postmeta m ON m.post_id = p.id
	WHERE p.post_type = 'shop_order'
`

// FindOrders implements storefront.Repository.
func (r *PostgresRepository) FindOrders(ctx context.Context, q storefront.OrderQuery, limit int) ([]storefront.Order, error) {
	query := orderSelect
	args := []any{}
	argPos := 1
	if q.OrderID != 0 {
		query += ` AND p.id = $` + strconv.Itoa(argPos)
		args = append(args, q.OrderID)
		argPos++
	}
	query += ` GROUP BY p.id, p.post_status, p.post_date`
	if q.Email != "" {
		query += ` HAVING MAX(CASE WHEN m.meta_key = '_billing_email' THEN m.meta_value END) = $` + strconv.Itoa(argPos)
		args = append(args, q.Email)
		argPos++
	}
	query += ` ORDER BY p.post_date DESC LIMIT $` + strconv.Itoa(argPos)
	args = append(args, limit)

	return r.queryOrders(ctx, query, args...)
}

// LatestOrders implements storefront.Repository.
func (r *PostgresRepository) LatestOrders(ctx context.Context, limit int) ([]storefront.Order, error) {
	query := orderSelect + `
		GROUP BY p.id, p.post_status, p.post_date
		ORDER BY p.post_date DESC
		LIMIT $1
	`
	return r.queryOrders(ctx, query, limit)
}

func (r *PostgresRepository) queryOrders(ctx context.Context, query string, args ...any) ([]storefront.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []storefront.Order
	for rows.Next() {
		var (
			order     storefront.Order
			firstName *string
			lastName  *string
			total     *string
		)
		if err := rows.Scan(&order.ID, &order.Status, &order.Date, &firstName, &lastName, &total); err != nil {
			return nil, err
		}
		order.Customer = joinName(firstName, lastName)
		if total != nil {
			order.Total = *total
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// SearchProducts implements storefront.Repository.
func (r *PostgresRepository) SearchProducts(ctx context.Context, title string, limit int) ([]storefront.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.post_title,
			MAX(CASE WHEN m.meta_key = '_price' THEN m.meta_value END) AS price
		FROM wp_posts p
		LEFT JOIN wp_postmeta m ON m.post_id = p.id
		WHERE p.post_type = 'product'
			AND p.post_status = 'publish'
			AND p.post_title ILIKE '%' || $1 || '%'
		GROUP BY p.id, p.post_title
		ORDER BY p.post_title ASC
		LIMIT $2
	`, title, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []storefront.Product
	for rows.Next() {
		var (
			product storefront.Product
			price   *string
		)
		if err := rows.Scan(&product.ID, &product.Title, &price); err != nil {
			return nil, err
		}
		if price != nil {
			product.Price = *price
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func joinName(first, last *string) string {
	var parts []string
	if first != nil && strings.TrimSpace(*first) != "" {
		parts = append(parts, strings.TrimSpace(*first))
	}
	if last != nil && strings.TrimSpace(*last) != "" {
		parts = append(parts, strings.TrimSpace(*last))
	}
	return strings.Join(parts, " ")
}

var _ storefront.Repository = (*PostgresRepository)(nil)
