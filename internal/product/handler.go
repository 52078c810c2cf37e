// AngelaMos | 2026
// handler.go

package product

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/playerone/storefront/internal/archive"
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
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/search", h.Search)
		r.Get("/{productID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Put("/{productID}", h.Update)
			r.Delete("/{productID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
	}
	params.Normalize()

	products, total, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToProductResponseList(products),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Query:    r.URL.Query().Get("q"),
	}
	params.Normalize()

	products, total, err := h.service.Search(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToProductResponseList(products),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if !core.ValidID(id) {
		core.NotFound(w, "product")
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToProductResponse(product))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if !core.ValidID(id) {
		core.NotFound(w, "product")
		return
	}

	req, ok := h.decodeProduct(w, r)
	if !ok {
		return
	}

	product, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if !core.ValidID(id) {
		core.NotFound(w, "product")
		return
	}

	var req archive.DeleteRequest
	if err := core.DecodeOptionalJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	removed, err := h.service.Delete(
		r.Context(),
		middleware.GetUserID(r.Context()),
		id,
		req.Reason,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, DeletedResponse{ID: removed.ID, Message: "product removed"})
}

func (h *Handler) decodeProduct(
	w http.ResponseWriter,
	r *http.Request,
) (ProductRequest, bool) {
	var req ProductRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return req, false
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequestWithDetails(
			w,
			core.FormatValidationError(err),
			core.ValidationMessages(err),
		)
		return req, false
	}

	return req, true
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "product")
		return
	}
	core.JSONError(w, err)
}
