// AngelaMos | 2026
// entity.go

package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is a cart row joined with its active product.
type Line struct {
	ProductID string          `db:"product_id"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"price"`
	Quantity  int             `db:"quantity"`
	Stock     int             `db:"stock"`
	AddedAt   time.Time       `db:"added_at"`
}

func (l *Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
