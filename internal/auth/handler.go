// AngelaMos | 2026
// handler.go

package auth

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

// RegisterRoutes mounts the auth endpoints. credentialLimiter wraps only the
// endpoints that accept a password.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, credentialLimiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(credentialLimiter)
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/verify", h.Verify)
			r.Get("/me", h.GetMe)
			r.With(credentialLimiter).Post("/change-password", h.ChangePassword)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequestWithDetails(
			w,
			core.FormatValidationError(err),
			core.ValidationMessages(err),
		)
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, RegisterResponse{
		Message:          "user registered",
		User:             ToUserSummary(result.User),
		PasswordStrength: result.Strength,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequestWithDetails(
			w,
			core.FormatValidationError(err),
			core.ValidationMessages(err),
		)
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, LoginResponse{
		Message:   "login successful",
		Token:     result.Token,
		TokenType: h.service.TokenType(),
		ExpiresAt: result.ExpiresAt,
		User:      ToUserResponse(result.User),
	})
}

// Verify answers for the account resolved by the authenticator, so a token
// whose user was deactivated never reaches it.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetCurrentUser(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, VerifyResponse{User: ToUserResponse(user)})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetCurrentUser(
		r.Context(),
		middleware.GetUserID(r.Context()),
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequestWithDetails(
			w,
			core.FormatValidationError(err),
			core.ValidationMessages(err),
		)
		return
	}

	err := h.service.ChangePassword(
		r.Context(),
		middleware.GetUserID(r.Context()),
		req,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var policyErr *PasswordPolicyError

	switch {
	case errors.As(err, &policyErr):
		core.BadRequestWithDetails(
			w,
			"password does not meet requirements",
			PolicyDetails{
				Violations:       policyErr.Violations,
				PasswordStrength: policyErr.Strength,
			},
		)
	case errors.Is(err, ErrInvalidCredentials):
		core.Unauthorized(w, "invalid credentials")
	case errors.Is(err, ErrWrongPassword):
		core.BadRequest(w, "current password is incorrect")
	case errors.Is(err, ErrEmailExists):
		core.Conflict(w, "email")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "user")
	default:
		core.JSONError(w, err)
	}
}
