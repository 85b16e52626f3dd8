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

// accountService implements AccountService.
type accountService struct {
	userRepo repository.UserRepository
	audit    *Recorder
	logger   zerolog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(userRepo repository.UserRepository, audit *Recorder, logger zerolog.Logger) AccountService {
	return &accountService{
		userRepo: userRepo,
		audit:    audit,
		logger:   logger.With().Str("service", "account").Logger(),
	}
}

func (s *accountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" || email == "" {
		return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Username and email are required")
	}
	if len(password) < 8 {
		return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &user.ID, "account", "register", user.ID.String(), user.Email)
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return user, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &user.ID, "account", "login", user.ID.String(), "")
	return user, nil
}

func (s *accountService) BackofficeLogin(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if user.Role != model.RoleAdmin {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("non-admin back-office login attempt")
		return nil, model.ErrForbidden
	}

	s.audit.Record(ctx, &user.ID, "account", "backoffice_login", user.ID.String(), "")
	return user, nil
}

// authenticate checks credentials without revealing whether the email or
// the password was wrong.
func (s *accountService) authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if user == nil || !user.IsActive {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug().Str("user_id", user.ID.String()).Msg("password mismatch")
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}
