package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// userAdminService implements UserAdminService.
type userAdminService struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
	audit     *Recorder
	logger    zerolog.Logger
}

// NewUserAdminService creates a new back-office account management service.
func NewUserAdminService(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	audit *Recorder,
	logger zerolog.Logger,
) UserAdminService {
	return &userAdminService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		audit:     audit,
		logger:    logger.With().Str("service", "user_admin").Logger(),
	}
}

func (s *userAdminService) List(ctx context.Context, keyword string, page, pageSize int) (*model.UserPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	users, total, err := s.userRepo.List(ctx, strings.TrimSpace(keyword), pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &model.UserPage{
		Data:       users,
		TotalItems: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *userAdminService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	return user, nil
}

func (s *userAdminService) Create(ctx context.Context, actorID *uuid.UUID, req *model.AdminUserRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))

	if username == "" || email == "" {
		return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Username and email are required")
	}
	if len(req.Password) < 8 {
		return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Password must be at least 8 characters")
	}

	role, err := normaliseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, "user", "create", user.ID.String(), user.Email)
	s.logger.Info().Str("user_id", user.ID.String()).Str("role", role).Msg("user created by admin")

	return user, nil
}

func (s *userAdminService) Update(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *model.AdminUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	if username := strings.TrimSpace(req.Username); username != "" {
		user.Username = username
	}
	if email := strings.TrimSpace(strings.ToLower(req.Email)); email != "" {
		user.Email = email
	}
	if req.Role != "" {
		role, err := normaliseRole(req.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorID, "user", "update", user.ID.String(), user.Email)
	return user, nil
}

func (s *userAdminService) Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	// Order history must stay attributable, so such accounts can only be
	// deactivated.
	hasOrders, err := s.orderRepo.ExistsForUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if hasOrders {
		return model.NewDomainError(model.ErrCodeValidationFailed,
			"User has order history and cannot be deleted, deactivate the account instead")
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, actorID, "user", "delete", id.String(), user.Email)
	return nil
}

func (s *userAdminService) SetActiveBatch(ctx context.Context, actorID *uuid.UUID, ids []uuid.UUID, active bool) (int, error) {
	if len(ids) == 0 {
		return 0, model.NewDomainError(model.ErrCodeValidationFailed, "At least one user id is required")
	}

	updated, err := s.userRepo.SetActiveBatch(ctx, ids, active)
	if err != nil {
		return 0, fmt.Errorf("failed to update user status: %w", err)
	}

	s.audit.Record(ctx, actorID, "user", "batch_status", "",
		fmt.Sprintf("%d accounts set active=%t", updated, active))

	return updated, nil
}

// normaliseRole validates a requested role, defaulting to customer.
func normaliseRole(role string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(role)) {
	case "":
		return model.RoleUser, nil
	case model.RoleUser:
		return model.RoleUser, nil
	case model.RoleAdmin:
		return model.RoleAdmin, nil
	default:
		return "", model.NewDomainError(model.ErrCodeValidationFailed, "Role must be user or admin")
	}
}
