// AngelaMos | 2026
// service.go

package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/playerone/storefront/internal/core"
)

const (
	KindProducts = "products"
	KindSales    = "sales"
)

type ProductsReport struct {
	Products    []ProductRow `json:"products"`
	Total       int          `json:"total"`
	GeneratedAt time.Time    `json:"generated_at"`
}

type UsersReport struct {
	Users       []UserRow `json:"users"`
	Total       int       `json:"total"`
	GeneratedAt time.Time `json:"generated_at"`
}

type SalesReport struct {
	Lines             []SalesRow      `json:"lines"`
	TotalUnits        int             `json:"total_units"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AveragePerProduct decimal.Decimal `json:"average_per_product"`
	BestSeller        *SalesRow       `json:"best_seller,omitempty"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Products(ctx context.Context) (*ProductsReport, error) {
	rows, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductsReport{
		Products:    nonNil(rows),
		Total:       len(rows),
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *Service) Users(ctx context.Context) (*UsersReport, error) {
	rows, err := s.repo.Users(ctx)
	if err != nil {
		return nil, err
	}

	return &UsersReport{
		Users:       nonNil(rows),
		Total:       len(rows),
		GeneratedAt: s.now().UTC(),
	}, nil
}

// Sales summarises what is currently sitting in active carts. The store has
// no order table, so cart demand is the only sales signal available.
func (s *Service) Sales(ctx context.Context) (*SalesReport, error) {
	rows, err := s.repo.Sales(ctx)
	if err != nil {
		return nil, err
	}

	return summarise(rows, s.now().UTC()), nil
}

func summarise(rows []SalesRow, at time.Time) *SalesReport {
	report := &SalesReport{
		Lines:             nonNil(rows),
		TotalRevenue:      decimal.Zero,
		AveragePerProduct: decimal.Zero,
		GeneratedAt:       at,
	}

	for i := range rows {
		report.TotalUnits += rows[i].Units
		report.TotalRevenue = report.TotalRevenue.Add(rows[i].Revenue)

		if report.BestSeller == nil || rows[i].Units > report.BestSeller.Units {
			report.BestSeller = &rows[i]
		}
	}

	if len(rows) > 0 {
		report.AveragePerProduct = report.TotalRevenue.
			Div(decimal.NewFromInt(int64(len(rows)))).
			Round(2)
	}

	return report
}

// PDF renders the requested report. An empty kind means products.
func (s *Service) PDF(ctx context.Context, kind string) ([]byte, string, error) {
	switch kind {
	case "", KindProducts:
		report, err := s.Products(ctx)
		if err != nil {
			return nil, "", err
		}
		doc, err := renderProductsPDF(report)
		if err != nil {
			return nil, "", err
		}
		return doc, "products-report.pdf", nil

	case KindSales:
		report, err := s.Sales(ctx)
		if err != nil {
			return nil, "", err
		}
		doc, err := renderSalesPDF(report)
		if err != nil {
			return nil, "", err
		}
		return doc, "sales-report.pdf", nil

	default:
		return nil, "", fmt.Errorf(
			"report type %q: %w",
			kind,
			core.ErrInvalidInput,
		)
	}
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
