// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/playerone/storefront/internal/archive"
	"github.com/playerone/storefront/internal/core"
)

type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, product *Product) error
	SoftDelete(ctx context.Context, id, actorID, reason string) (*Product, error)
	List(ctx context.Context, params ListParams) ([]Product, int, error)
	Search(ctx context.Context, params ListParams) ([]Product, int, error)
}

type repository struct {
	db core.Store
}

func NewRepository(db core.Store) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, description, price, category, platform,
	image_url, stock, active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products
			(id, name, description, price, category, platform, image_url, stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		RETURNING active, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Platform,
		product.ImageURL,
		product.Stock,
	).Scan(&product.Active, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND active = TRUE`

	var product Product
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

func (r *repository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, category = $5,
		    platform = $6, image_url = $7, stock = $8, updated_at = NOW()
		WHERE id = $1 AND active = TRUE
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		product.Platform,
		product.ImageURL,
		product.Stock,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	product.Active = true
	return nil
}

// SoftDelete deactivates an active product and appends its ledger entry in
// the same transaction. An unknown or already inactive id is
// core.ErrNotFound and writes nothing.
func (r *repository) SoftDelete(
	ctx context.Context,
	id, actorID, reason string,
) (*Product, error) {
	var removed Product

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `SELECT ` + productColumns + `
			FROM products
			WHERE id = $1 AND active = TRUE
			FOR UPDATE`

		err := tx.GetContext(ctx, &removed, query, id)
		if errors.Is(err, sql.ErrNoRows) {
			return core.ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := archive.Append(ctx, tx, &archive.RemovedItem{
			ResourceType: archive.ResourceProduct,
			ResourceID:   removed.ID,
			Name:         removed.Name,
			Reason:       &reason,
			RemovedBy:    actorID,
		}); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE products
			SET active = FALSE, updated_at = NOW()
			WHERE id = $1`, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	removed.Active = false
	return &removed, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	params.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM products WHERE active = TRUE`); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE active = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query,
		params.PageSize, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (r *repository) Search(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	params.Normalize()

	pattern := "%" + core.EscapeLike(params.Query) + "%"
	where := `active = TRUE
		AND (name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1)`

	var total int
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM products WHERE `+where, pattern); err != nil {
		return nil, 0, fmt.Errorf("count product search: %w", err)
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE ` + where + `
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query,
		pattern, params.PageSize, params.Offset()); err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}

	return products, total, nil
}
