// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/playerone/storefront/internal/archive"
	"github.com/playerone/storefront/internal/core"
	"github.com/playerone/storefront/internal/metrics"
)

// CatalogCache is satisfied by *core.Cache. Invalidate must make every
// entry stored under an earlier version unreachable.
type CatalogCache interface {
	Get(ctx context.Context, key string, dest any) (bool, int64, error)
	SetAt(ctx context.Context, version int64, key string, value any) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	repo   Repository
	cache  CatalogCache
	logger *slog.Logger
}

// NewService wires the catalog. cache may be nil to disable caching.
func NewService(repo Repository, cache CatalogCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

type page struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	params.Normalize()
	key := fmt.Sprintf("list:%d:%d", params.Page, params.PageSize)

	var cached page
	hit, version := s.cacheGet(ctx, key, &cached)
	if hit {
		return cached.Items, cached.Total, nil
	}

	products, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	s.cacheSet(ctx, version, key, page{Items: products, Total: total})
	return products, total, nil
}

func (s *Service) Search(
	ctx context.Context,
	params ListParams,
) ([]Product, int, error) {
	params.Normalize()
	if params.Query == "" {
		return nil, 0, core.ValidationError("q is required", nil)
	}

	key := fmt.Sprintf("search:%d:%d:%s", params.Page, params.PageSize, params.Query)

	var cached page
	hit, version := s.cacheGet(ctx, key, &cached)
	if hit {
		return cached.Items, cached.Total, nil
	}

	products, total, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	s.cacheSet(ctx, version, key, page{Items: products, Total: total})
	return products, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	key := "product:" + id

	var cached Product
	hit, version := s.cacheGet(ctx, key, &cached)
	if hit {
		return &cached, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, version, key, product)
	return product, nil
}

func (s *Service) Create(
	ctx context.Context,
	req ProductRequest,
) (*Product, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	product := &Product{ID: uuid.New().String()}
	req.apply(product)

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return product, nil
}

// Update replaces every editable field of an active product.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req ProductRequest,
) (*Product, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.apply(product)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return product, nil
}

// Delete deactivates a product and records it in the removed-items ledger.
// Deleting an unknown or already removed product is core.ErrNotFound.
func (s *Service) Delete(
	ctx context.Context,
	actorID, id, reason string,
) (*Product, error) {
	ctx, span := core.StartSpan(ctx, "product.SoftDelete",
		attribute.String("product.id", id),
		attribute.String("actor.id", actorID),
	)
	defer span.End()

	removed, err := s.repo.SoftDelete(ctx, id, actorID, reason)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			core.SetSpanError(ctx, err)
		}
		return nil, err
	}

	core.AddSpanEvent(ctx, "removed_item.appended")
	metrics.SoftDeletesTotal.WithLabelValues(archive.ResourceProduct).Inc()
	s.invalidate(ctx)

	return removed, nil
}

func checkRequest(req ProductRequest) error {
	if req.Price == nil || req.Stock == nil {
		return core.ValidationError("price and stock are required", nil)
	}
	if req.Price.IsNegative() {
		return core.ValidationError("price must not be negative", nil)
	}
	if req.Price.Round(priceScale).GreaterThanOrEqual(maxPrice) {
		return core.ValidationError("price must be below 100000000", nil)
	}
	if *req.Stock < 0 {
		return core.ValidationError("stock must not be negative", nil)
	}
	return nil
}

// cacheGet reports a hit and the namespace version the lookup ran under.
// A negative version means the cache is unusable and nothing should be
// written back.
func (s *Service) cacheGet(ctx context.Context, key string, dest any) (bool, int64) {
	if s.cache == nil {
		return false, -1
	}

	found, version, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		s.logger.WarnContext(ctx, "catalog cache read failed",
			"key", key,
			"error", err,
		)
		return false, -1
	}

	if found {
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}
	return found, version
}

func (s *Service) cacheSet(ctx context.Context, version int64, key string, value any) {
	if s.cache == nil || version < 0 {
		return
	}

	if err := s.cache.SetAt(ctx, version, key, value); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed",
			"key", key,
			"error", err,
		)
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.ErrorContext(ctx, "catalog cache invalidation failed",
			"error", err,
		)
	}
}
