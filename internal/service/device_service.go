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
)

// deviceService implements DeviceService.
type deviceService struct {
	deviceRepo repository.DeviceRepository
	logger     zerolog.Logger
}

// NewDeviceService creates a new device token service.
func NewDeviceService(deviceRepo repository.DeviceRepository, logger zerolog.Logger) DeviceService {
	return &deviceService{
		deviceRepo: deviceRepo,
		logger:     logger.With().Str("service", "device").Logger(),
	}
}

func (s *deviceService) Register(ctx context.Context, userID uuid.UUID, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.NewDomainError(model.ErrCodeValidationFailed, "Device token is required")
	}

	device := &model.DeviceToken{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		Platform:  strings.TrimSpace(platform),
		UpdatedAt: time.Now(),
	}

	// A token handed to a new user is reassigned, not duplicated.
	if err := s.deviceRepo.Upsert(ctx, device); err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("platform", device.Platform).
		Msg("device token registered")

	return nil
}
