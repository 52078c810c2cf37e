// AngelaMos | 2026
// repository.go

package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/playerone/storefront/internal/core"
)

type Repository interface {
	List(ctx context.Context, params ListParams) ([]RemovedItem, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Append records a ledger entry on db, which is normally the transaction
// that is also flipping the resource's active flag. An empty reason is
// stored as NULL.
func Append(ctx context.Context, db core.DBTX, item *RemovedItem) error {
	if !ValidResourceType(item.ResourceType) {
		return fmt.Errorf(
			"append removed item: resource type %q: %w",
			item.ResourceType,
			core.ErrInvalidInput,
		)
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	if item.Reason != nil && strings.TrimSpace(*item.Reason) == "" {
		item.Reason = nil
	}

	query := `
		INSERT INTO removed_items
			(id, resource_type, resource_id, name, reason, removed_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING removed_at`

	err := db.GetContext(ctx, &item.RemovedAt, query,
		item.ID,
		item.ResourceType,
		item.ResourceID,
		item.Name,
		item.Reason,
		item.RemovedBy,
	)
	if err != nil {
		return fmt.Errorf("append removed item: %w", err)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListParams,
) ([]RemovedItem, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.ResourceType != "" {
		conditions = append(conditions, fmt.Sprintf("resource_type = $%d", argIdx))
		args = append(args, params.ResourceType)
		argIdx++
	}

	if params.ResourceID != "" {
		conditions = append(conditions, fmt.Sprintf("resource_id = $%d", argIdx))
		args = append(args, params.ResourceID)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM removed_items WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count removed items: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, resource_type, resource_id, name, reason, removed_by, removed_at
		FROM removed_items
		WHERE %s
		ORDER BY removed_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var items []RemovedItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list removed items: %w", err)
	}

	return items, total, nil
}
