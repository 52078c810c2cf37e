// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/playerone/storefront/internal/core"
)

type StoreCounts struct {
	ActiveUsers      int `db:"active_users"      json:"active_users"`
	InactiveUsers    int `db:"inactive_users"    json:"inactive_users"`
	ActiveProducts   int `db:"active_products"   json:"active_products"`
	InactiveProducts int `db:"inactive_products" json:"inactive_products"`
	RemovedItems     int `db:"removed_items"     json:"removed_items"`
	CartLines        int `db:"cart_lines"        json:"cart_lines"`
}

type Repository interface {
	Counts(ctx context.Context) (*StoreCounts, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Counts(ctx context.Context) (*StoreCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE active = TRUE)     AS active_users,
			(SELECT COUNT(*) FROM users WHERE active = FALSE)    AS inactive_users,
			(SELECT COUNT(*) FROM products WHERE active = TRUE)  AS active_products,
			(SELECT COUNT(*) FROM products WHERE active = FALSE) AS inactive_products,
			(SELECT COUNT(*) FROM removed_items)                 AS removed_items,
			(SELECT COUNT(*) FROM cart_items)                    AS cart_lines`

	var counts StoreCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("store counts: %w", err)
	}

	return &counts, nil
}
