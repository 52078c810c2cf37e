// AngelaMos | 2026
// service.go

package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/playerone/storefront/internal/core"
	"github.com/playerone/storefront/internal/product"
)

var ErrInsufficientStock = errors.New("insufficient stock")

// ProductLookup returns active products only; *product.Service satisfies it.
type ProductLookup interface {
	Get(ctx context.Context, id string) (*product.Product, error)
}

type Service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) Get(ctx context.Context, userID string) (View, error) {
	lines, err := s.repo.Lines(ctx, userID)
	if err != nil {
		return View{}, err
	}
	return NewView(lines), nil
}

// AddItem adds quantity on top of whatever the cart already holds for the
// product. The combined amount may not exceed current stock.
func (s *Service) AddItem(
	ctx context.Context,
	userID string,
	req AddItemRequest,
) (View, error) {
	p, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return View{}, err
	}

	current, err := s.repo.Quantity(ctx, userID, p.ID)
	if err != nil {
		return View{}, err
	}

	total := current + req.Quantity
	if !p.InStock(total) {
		return View{}, fmt.Errorf(
			"add %d of %s (have %d, stock %d): %w",
			req.Quantity, p.ID, current, p.Stock, ErrInsufficientStock,
		)
	}

	if err := s.repo.Upsert(ctx, userID, p.ID, total); err != nil {
		return View{}, err
	}

	return s.Get(ctx, userID)
}

func (s *Service) UpdateItem(
	ctx context.Context,
	userID, productID string,
	quantity int,
) (View, error) {
	if quantity <= 0 {
		return View{}, core.ValidationError("quantity must be greater than 0", nil)
	}

	current, err := s.repo.Quantity(ctx, userID, productID)
	if err != nil {
		return View{}, err
	}
	if current == 0 {
		return View{}, fmt.Errorf("update cart item: %w", core.ErrNotFound)
	}

	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return View{}, err
	}

	if !p.InStock(quantity) {
		return View{}, fmt.Errorf(
			"set %d of %s (stock %d): %w",
			quantity, p.ID, p.Stock, ErrInsufficientStock,
		)
	}

	if err := s.repo.Upsert(ctx, userID, productID, quantity); err != nil {
		return View{}, err
	}

	return s.Get(ctx, userID)
}

func (s *Service) RemoveItem(
	ctx context.Context,
	userID, productID string,
) (View, error) {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return View{}, err
	}
	return s.Get(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}
