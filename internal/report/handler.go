// AngelaMos | 2026
// handler.go

package report

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playerone/storefront/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/products", h.Products)
		r.Get("/users", h.Users)
		r.Get("/sales", h.Sales)
		r.Get("/pdf", h.PDF)
	})
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Products(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, report)
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Users(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, report)
}

func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Sales(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, report)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	doc, filename, err := h.service.PDF(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "type must be one of [products sales]")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // best-effort response write
	_, _ = w.Write(doc)
}
