// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/playerone/storefront/internal/archive"
	"github.com/playerone/storefront/internal/auth"
	"github.com/playerone/storefront/internal/core"
	"github.com/playerone/storefront/internal/metrics"
	"github.com/playerone/storefront/internal/password"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) EmailExists(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.ToLower(email))
}

func (s *Service) Create(
	ctx context.Context,
	name, email, passwordHash, role string,
) (*auth.UserInfo, error) {
	if role == "" {
		role = RoleUser
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, core.ValidationError("name must not be blank", nil)
		}
		user.Name = name
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			exists, existsErr := s.repo.ExistsByEmail(ctx, email)
			if existsErr != nil {
				return nil, existsErr
			}
			if exists {
				return nil, fmt.Errorf("update user: %w", core.ErrDuplicateKey)
			}
			user.Email = email
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateUserRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	return s.UpdateUser(ctx, userID, req)
}

// DeleteMe deactivates the caller's own account. The caller is recorded as
// the actor.
func (s *Service) DeleteMe(
	ctx context.Context,
	userID, reason string,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("delete me: %w", core.ErrUnauthorized)
	}

	return s.softDelete(ctx, userID, userID, reason)
}

func (s *Service) DeleteUser(
	ctx context.Context,
	actorID, targetID, reason string,
) (*User, error) {
	if err := s.CanDeleteUser(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	return s.softDelete(ctx, actorID, targetID, reason)
}

func (s *Service) CanDeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return nil
	}

	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("delete user: %w", core.ErrForbidden)
		}
		return err
	}

	if !requester.IsAdmin() {
		return fmt.Errorf("delete user: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return nil
}

func (s *Service) softDelete(
	ctx context.Context,
	actorID, targetID, reason string,
) (*User, error) {
	ctx, span := core.StartSpan(ctx, "user.SoftDelete",
		attribute.String("user.id", targetID),
		attribute.String("actor.id", actorID),
	)
	defer span.End()

	removed, err := s.repo.SoftDelete(ctx, targetID, actorID, reason)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			core.SetSpanError(ctx, err)
		}
		return nil, err
	}

	core.AddSpanEvent(ctx, "removed_item.appended")
	metrics.SoftDeletesTotal.WithLabelValues(archive.ResourceUser).Inc()

	return removed, nil
}

// EnsureAdmin creates the bootstrap administrator when no account uses the
// email yet. An existing account is left as is.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	logger *slog.Logger,
	name, email, plain string,
) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if exists {
		logger.Debug("bootstrap admin already present", "email", email)
		return nil
	}

	if violations := password.Validate(plain); len(violations) > 0 {
		return fmt.Errorf(
			"ensure admin: %s: %w",
			strings.Join(violations, "; "),
			core.ErrInvalidInput,
		)
	}

	hash, err := core.HashPassword(plain)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	created, err := s.Create(ctx, name, email, hash, RoleAdmin)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("ensure admin: %w", err)
	}

	logger.Info("bootstrap admin created", "user_id", created.ID, "email", email)
	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
