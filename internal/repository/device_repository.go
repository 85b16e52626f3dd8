package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// deviceRepository implements the DeviceRepository interface using PostgreSQL.
type deviceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDeviceRepository creates a new PostgreSQL-backed device-token repository.
func NewDeviceRepository(pool *pgxpool.Pool, logger zerolog.Logger) DeviceRepository {
	return &deviceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "device").Logger(),
	}
}

func (r *deviceRepository) Upsert(ctx context.Context, token *model.DeviceToken) error {
	// A token is unique across users; re-registering moves it to the new
	// owner, which is what happens when a device changes accounts.
	query := `
		INSERT INTO device_tokens (id, user_id, token, platform, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (token)
		DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query, token.ID, token.UserID, token.Token, token.Platform)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", token.UserID.String()).Msg("failed to upsert device token")
		return fmt.Errorf("failed to upsert device token: %w", err)
	}

	return nil
}
