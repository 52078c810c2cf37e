// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/playerone/storefront/internal/core"
	"github.com/playerone/storefront/internal/metrics"
	"github.com/playerone/storefront/internal/middleware"
	"github.com/playerone/storefront/internal/password"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already registered")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// PasswordPolicyError lists every rule a candidate password broke together
// with its heuristic strength label.
type PasswordPolicyError struct {
	Violations []string
	Strength   password.Strength
}

func (e *PasswordPolicyError) Error() string {
	return "password does not meet requirements: " +
		strings.Join(e.Violations, "; ")
}

func (e *PasswordPolicyError) Unwrap() error {
	return core.ErrInvalidInput
}

const RoleUser = "user"

type UserInfo struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// UserProvider is the credential store. GetByID and GetByEmail only see
// active accounts and return core.ErrNotFound otherwise. EmailExists checks
// every row, active or not.
type UserProvider interface {
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(
		ctx context.Context,
		name, email, passwordHash, role string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	tokens       *TokenManager
	userProvider UserProvider
	logger       *slog.Logger
}

func NewService(
	tokens *TokenManager,
	userProvider UserProvider,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tokens:       tokens,
		userProvider: userProvider,
		logger:       logger,
	}
}

type RegisterResult struct {
	User     *UserInfo
	Strength password.Strength
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (result *RegisterResult, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Register")
	defer span.End()
	defer func() { recordAttempt(ctx, "register", err) }()

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	if name == "" || email == "" || req.Password == "" {
		return nil, core.ValidationError(
			"name, email and password are required",
			nil,
		)
	}

	strength := password.Score(req.Password)
	if violations := password.Validate(req.Password); len(violations) > 0 {
		return nil, &PasswordPolicyError{
			Violations: violations,
			Strength:   strength,
		}
	}

	exists, err := s.userProvider.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, core.ErrPasswordTooLong) {
			return nil, core.ValidationError("password exceeds 72 bytes", nil)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, name, email, passwordHash, RoleUser)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))

	return &RegisterResult{User: user, Strength: strength}, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *UserInfo
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (result *LoginResult, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer span.End()
	defer func() { recordAttempt(ctx, "login", err) }()

	user, err := s.userProvider.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // keeps unknown-email latency in line with a wrong password
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if updateErr := s.userProvider.UpdatePassword(ctx, user.ID, newHash); updateErr != nil {
			s.logger.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", updateErr,
			)
		}
	}

	token, expiresAt, err := s.tokens.CreateToken(TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	span.SetAttributes(attribute.String("user.id", user.ID))

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// ResolveToken maps a bearer token to the live, active account behind it.
// Any verification failure, or an account that is gone or deactivated,
// yields nil, nil. Only storage failures are returned as errors.
func (s *Service) ResolveToken(
	ctx context.Context,
	token string,
) (*UserInfo, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, nil //nolint:nilerr // an unverifiable token is simply anonymous
	}

	user, err := s.userProvider.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve token: %w", err)
	}

	if !user.Active {
		return nil, nil
	}

	return user, nil
}

func (s *Service) ResolveIdentity(
	ctx context.Context,
	token string,
) (*middleware.Identity, error) {
	user, err := s.ResolveToken(ctx, token)
	if err != nil || user == nil {
		return nil, err
	}

	return &middleware.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserInfo, error) {
	return s.userProvider.GetByID(ctx, userID)
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID string,
	req ChangePasswordRequest,
) error {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return ErrWrongPassword
	}

	if violations := password.Validate(req.NewPassword); len(violations) > 0 {
		return &PasswordPolicyError{
			Violations: violations,
			Strength:   password.Score(req.NewPassword),
		}
	}

	newHash, err := core.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, core.ErrPasswordTooLong) {
			return core.ValidationError("password exceeds 72 bytes", nil)
		}
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userProvider.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

func (s *Service) TokenType() string {
	return "Bearer"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func recordAttempt(ctx context.Context, operation string, err error) {
	var policyErr *PasswordPolicyError

	result := metrics.ResultSuccess
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		result = metrics.ResultInvalidCredentials
	case errors.As(err, &policyErr), errors.Is(err, core.ErrInvalidInput):
		result = metrics.ResultPolicyViolation
	case errors.Is(err, ErrEmailExists):
		result = metrics.ResultConflict
	default:
		result = metrics.ResultError
		core.SetSpanError(ctx, err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}

var _ middleware.IdentityResolver = (*Service)(nil)
