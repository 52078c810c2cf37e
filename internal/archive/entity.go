// AngelaMos | 2026
// entity.go

package archive

import (
	"time"
)

const (
	ResourceProduct = "product"
	ResourceUser    = "user"
)

// RemovedItem is an immutable snapshot written when a product or user is
// deactivated. Rows are only ever inserted.
type RemovedItem struct {
	ID           string    `db:"id"`
	ResourceType string    `db:"resource_type"`
	ResourceID   string    `db:"resource_id"`
	Name         string    `db:"name"`
	Reason       *string   `db:"reason"`
	RemovedBy    string    `db:"removed_by"`
	RemovedAt    time.Time `db:"removed_at"`
}

func ValidResourceType(t string) bool {
	return t == ResourceProduct || t == ResourceUser
}
