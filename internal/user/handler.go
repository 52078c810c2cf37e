// AngelaMos | 2026
// handler.go

package user

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
	r.Route("/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/me", h.GetMe)
		r.Put("/me", h.UpdateMe)
		r.Delete("/me", h.DeleteMe)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/", h.ListUsers)
			r.Get("/{userID}", h.GetUser)
			r.Put("/{userID}", h.UpdateUser)
			r.Put("/{userID}/role", h.UpdateUserRole)
			r.Delete("/{userID}", h.DeleteUser)
		})
	})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetMe(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeUpdate(w, r)
	if !ok {
		return
	}

	user, err := h.service.UpdateMe(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDelete(w, r)
	if !ok {
		return
	}

	removed, err := h.service.DeleteMe(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req.Reason,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, DeletedResponse{ID: removed.ID, Message: "account deactivated"})
}

// ListUsers returns active users, newest first.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := ListUsersParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", 20),
		Search:   r.URL.Query().Get("search"),
		Role:     r.URL.Query().Get("role"),
	}
	params.Normalize()

	users, total, err := h.service.ListUsers(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(
		w,
		ToUserResponseList(users),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !core.ValidID(userID) {
		core.NotFound(w, "user")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !core.ValidID(userID) {
		core.NotFound(w, "user")
		return
	}

	req, ok := h.decodeUpdate(w, r)
	if !ok {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if !core.ValidID(userID) {
		core.NotFound(w, "user")
		return
	}

	var req UpdateUserRoleRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.UpdateUserRole(r.Context(), userID, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

// DeleteUser deactivates an account on behalf of an admin. Other admins are
// protected.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userID")
	if !core.ValidID(targetID) {
		core.NotFound(w, "user")
		return
	}

	req, ok := h.decodeDelete(w, r)
	if !ok {
		return
	}

	removed, err := h.service.DeleteUser(
		r.Context(),
		middleware.GetUserID(r.Context()),
		targetID,
		req.Reason,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, DeletedResponse{ID: removed.ID, Message: "user deactivated"})
}

func (h *Handler) decodeUpdate(
	w http.ResponseWriter,
	r *http.Request,
) (UpdateUserRequest, bool) {
	var req UpdateUserRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return req, false
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return req, false
	}

	return req, true
}

func (h *Handler) decodeDelete(
	w http.ResponseWriter,
	r *http.Request,
) (archive.DeleteRequest, bool) {
	var req archive.DeleteRequest
	if err := core.DecodeOptionalJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return req, false
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return req, false
	}

	return req, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "insufficient permissions")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "authentication required")
	case errors.Is(err, core.ErrDuplicateKey):
		core.Conflict(w, "email")
	case errors.Is(err, core.ErrInvalidInput):
		if _, ok := core.AsAppError(err); ok {
			core.JSONError(w, err)
			return
		}
		core.BadRequest(w, "invalid input")
	default:
		core.InternalServerError(w, err)
	}
}
