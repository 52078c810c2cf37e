// AngelaMos | 2026
// handler.go

package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/playerone/storefront/internal/core"
	"github.com/playerone/storefront/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.Get)
		r.Delete("/", h.Clear)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.UpdateItem)
		r.Delete("/items/{productID}", h.RemoveItem)
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, view)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	view, err := h.service.AddItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, view)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if !core.ValidID(productID) {
		core.NotFound(w, "cart item")
		return
	}

	var req UpdateItemRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	view, err := h.service.UpdateItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		productID,
		req.Quantity,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, view)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if !core.ValidID(productID) {
		core.NotFound(w, "cart item")
		return
	}

	view, err := h.service.RemoveItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		productID,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, view)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), middleware.GetUserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		core.JSONError(w, core.NewAppError(
			ErrInsufficientStock,
			"requested quantity exceeds available stock",
			http.StatusBadRequest,
			"INSUFFICIENT_STOCK",
		))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "product or cart item")
	default:
		core.JSONError(w, err)
	}
}
