// AngelaMos | 2026
// repository.go

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playerone/storefront/internal/core"
)

type Repository interface {
	Lines(ctx context.Context, userID string) ([]Line, error)
	Quantity(ctx context.Context, userID, productID string) (int, error)
	Upsert(ctx context.Context, userID, productID string, quantity int) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Lines skips rows whose product has been removed from the catalog.
func (r *repository) Lines(ctx context.Context, userID string) ([]Line, error) {
	query := `
		SELECT c.product_id, p.name, p.price, c.quantity, p.stock, c.added_at
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1 AND p.active = TRUE
		ORDER BY c.added_at ASC`

	var lines []Line
	if err := r.db.SelectContext(ctx, &lines, query, userID); err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	return lines, nil
}

func (r *repository) Quantity(
	ctx context.Context,
	userID, productID string,
) (int, error) {
	query := `
		SELECT quantity FROM cart_items
		WHERE user_id = $1 AND product_id = $2`

	var quantity int
	err := r.db.GetContext(ctx, &quantity, query, userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get cart quantity: %w", err)
	}

	return quantity, nil
}

func (r *repository) Upsert(
	ctx context.Context,
	userID, productID string,
	quantity int,
) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity`

	if _, err := r.db.ExecContext(ctx, query, userID, productID, quantity); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}

	return nil
}

func (r *repository) Remove(
	ctx context.Context,
	userID, productID string,
) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove cart item: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
