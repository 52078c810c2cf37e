// AngelaMos | 2026
// repository.go

package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/playerone/storefront/internal/core"
)

type ProductRow struct {
	ID          string          `db:"id"          json:"id"`
	Name        string          `db:"name"        json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price"       json:"price"`
	Category    string          `db:"category"    json:"category"`
	Platform    string          `db:"platform"    json:"platform"`
	Stock       int             `db:"stock"       json:"stock"`
}

type UserRow struct {
	ID        string          `db:"id"         json:"id"`
	Name      string          `db:"name"       json:"name"`
	Email     string          `db:"email"      json:"email"`
	Role      string          `db:"role"       json:"role"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	CartLines int             `db:"cart_lines" json:"cart_lines"`
	CartUnits int             `db:"cart_units" json:"cart_units"`
	CartValue decimal.Decimal `db:"cart_value" json:"cart_value"`
}

// SalesRow aggregates demand for one product across every cart.
type SalesRow struct {
	ProductID string          `db:"product_id" json:"product_id"`
	Name      string          `db:"name"       json:"name"`
	Units     int             `db:"units"      json:"units"`
	Revenue   decimal.Decimal `db:"revenue"    json:"revenue"`
}

type Repository interface {
	Products(ctx context.Context) ([]ProductRow, error)
	Users(ctx context.Context) ([]UserRow, error)
	Sales(ctx context.Context) ([]SalesRow, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Products(ctx context.Context) ([]ProductRow, error) {
	query := `
		SELECT id, name, description, price, category, platform, stock
		FROM products
		WHERE active = TRUE
		ORDER BY price DESC, name ASC`

	var rows []ProductRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("products report: %w", err)
	}

	return rows, nil
}

func (r *repository) Users(ctx context.Context) ([]UserRow, error) {
	query := `
		SELECT u.id, u.name, u.email, u.role, u.created_at,
		       COUNT(p.id) AS cart_lines,
		       COALESCE(SUM(c.quantity) FILTER (WHERE p.id IS NOT NULL), 0) AS cart_units,
		       COALESCE(SUM(p.price * c.quantity), 0) AS cart_value
		FROM users u
		LEFT JOIN cart_items c ON c.user_id = u.id
		LEFT JOIN products p ON p.id = c.product_id AND p.active = TRUE
		WHERE u.active = TRUE
		GROUP BY u.id
		ORDER BY cart_value DESC, u.created_at ASC`

	var rows []UserRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("users report: %w", err)
	}

	return rows, nil
}

func (r *repository) Sales(ctx context.Context) ([]SalesRow, error) {
	query := `
		SELECT p.id AS product_id, p.name,
		       SUM(c.quantity) AS units,
		       SUM(p.price * c.quantity) AS revenue
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		JOIN users u ON u.id = c.user_id
		WHERE p.active = TRUE AND u.active = TRUE
		GROUP BY p.id, p.name
		ORDER BY units DESC, revenue DESC`

	var rows []SalesRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}

	return rows, nil
}
