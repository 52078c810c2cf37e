// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `db:"id"          json:"id"`
	Name        string          `db:"name"        json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price"       json:"price"`
	Category    string          `db:"category"    json:"category"`
	Platform    string          `db:"platform"    json:"platform"`
	ImageURL    string          `db:"image_url"   json:"image_url"`
	Stock       int             `db:"stock"       json:"stock"`
	Active      bool            `db:"active"      json:"active"`
	CreatedAt   time.Time       `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"  json:"updated_at"`
}

func (p *Product) InStock(quantity int) bool {
	return quantity > 0 && quantity <= p.Stock
}
