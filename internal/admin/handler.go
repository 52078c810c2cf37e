// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/playerone/storefront/internal/archive"
	"github.com/playerone/storefront/internal/core"
)

// HandlerConfig takes plain funcs for pool stats and pings so the handler
// does not depend on concrete connection types.
type HandlerConfig struct {
	DBStats      func() sql.DBStats
	RedisStats   func() *redis.PoolStats
	DBPing       func(ctx context.Context) error
	RedisPing    func(ctx context.Context) error
	Store        Repository
	RemovedItems archive.Repository
}

type Handler struct {
	cfg HandlerConfig
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
		r.Get("/removed-items", h.ListRemovedItems)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: ping(ctx, h.cfg.DBPing),
			Stats:   h.dbPoolStats(),
		},
		Redis: RedisStatus{
			Healthy: ping(ctx, h.cfg.RedisPing),
			Stats:   h.redisPoolStats(),
		},
		Runtime: runtimeStats(),
	}

	if h.cfg.Store != nil {
		counts, err := h.cfg.Store.Counts(ctx)
		if err != nil {
			slog.WarnContext(ctx, "store counts unavailable", "error", err)
		} else {
			response.Store = counts
		}
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.dbPoolStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.redisPoolStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, runtimeStats())
}

// ListRemovedItems pages through the soft-delete ledger, newest first.
func (h *Handler) ListRemovedItems(w http.ResponseWriter, r *http.Request) {
	params := archive.ListParams{
		Page:         core.QueryInt(r, "page", 1),
		PageSize:     core.QueryInt(r, "page_size", 20),
		ResourceType: r.URL.Query().Get("resource_type"),
		ResourceID:   r.URL.Query().Get("resource_id"),
	}
	params.Normalize()

	if params.ResourceType != "" && !archive.ValidResourceType(params.ResourceType) {
		core.BadRequest(w, "resource_type must be one of [product user]")
		return
	}

	if params.ResourceID != "" && !core.ValidID(params.ResourceID) {
		core.BadRequest(w, "resource_id must be a valid UUID")
		return
	}

	items, total, err := h.cfg.RemovedItems.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		archive.ToResponseList(items),
		params.Page,
		params.PageSize,
		total,
	)
}

func ping(ctx context.Context, fn func(context.Context) error) bool {
	if fn == nil {
		return false
	}
	return fn(ctx) == nil
}

func (h *Handler) dbPoolStats() *DBPoolStats {
	if h.cfg.DBStats == nil {
		return nil
	}

	stats := h.cfg.DBStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) redisPoolStats() *RedisPoolStats {
	if h.cfg.RedisStats == nil {
		return nil
	}

	stats := h.cfg.RedisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}

func runtimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     memStats.Alloc,
		NumGC:        memStats.NumGC,
	}
}
