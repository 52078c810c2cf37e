// AngelaMos | 2026
// dto.go

package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const priceScale = 2

// maxPrice is the first value that no longer fits NUMERIC(10, 2).
var maxPrice = decimal.New(1, 8)

// ProductRequest is used for both create and full-replace update. Price and
// Stock are pointers so a missing field is told apart from zero.
type ProductRequest struct {
	Name        string           `json:"name"        validate:"required,min=3,max=200"`
	Description string           `json:"description" validate:"max=1000"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Category    string           `json:"category"    validate:"max=50"`
	Platform    string           `json:"platform"    validate:"max=50"`
	ImageURL    string           `json:"image_url"   validate:"max=255"`
	Stock       *int             `json:"stock"       validate:"required,min=0"`
}

func (req *ProductRequest) apply(p *Product) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = strings.TrimSpace(req.Description)
	p.Price = req.Price.Round(priceScale)
	p.Category = strings.TrimSpace(req.Category)
	p.Platform = strings.TrimSpace(req.Platform)
	p.ImageURL = strings.TrimSpace(req.ImageURL)
	p.Stock = *req.Stock
}

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Platform    string          `json:"platform"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type DeletedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type ListParams struct {
	Page     int
	PageSize int
	Query    string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	p.Query = strings.TrimSpace(p.Query)
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToProductResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Platform:    p.Platform,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProductResponseList(products []Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses
}
