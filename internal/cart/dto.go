// AngelaMos | 2026
// dto.go

package cart

import (
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,gt=0,max=99"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0,max=99"`
}

type LineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type View struct {
	Items      []LineResponse  `json:"items"`
	TotalItems int             `json:"total_items"`
	Total      decimal.Decimal `json:"total"`
}

func NewView(lines []Line) View {
	view := View{
		Items: make([]LineResponse, 0, len(lines)),
		Total: decimal.Zero,
	}

	for i := range lines {
		l := &lines[i]
		subtotal := l.Subtotal()
		view.Items = append(view.Items, LineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  subtotal,
		})
		view.TotalItems += l.Quantity
		view.Total = view.Total.Add(subtotal)
	}

	return view
}
