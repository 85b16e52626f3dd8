package service

import (
	"context"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Recorder appends audit rows. Recording is best-effort: a failed append is
// logged and never propagated, so audit trouble cannot fail the operation
// being audited.
type Recorder struct {
	repo   repository.OperationLogRepository
	logger zerolog.Logger
}

// NewRecorder creates an audit recorder.
func NewRecorder(repo repository.OperationLogRepository, logger zerolog.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger.With().Str("service", "audit").Logger(),
	}
}

// Record appends one audit row.
func (r *Recorder) Record(ctx context.Context, actorID *uuid.UUID, category, action, targetID, detail string) {
	entry := &model.OperationLog{
		ID:        uuid.New(),
		ActorID:   actorID,
		Category:  category,
		Action:    action,
		TargetID:  targetID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	if err := r.repo.Append(ctx, entry); err != nil {
		r.logger.Error().
			Err(err).
			Str("category", category).
			Str("action", action).
			Msg("failed to record audit entry")
	}
}

// List retrieves recent audit rows for the back-office.
func (r *Recorder) List(ctx context.Context, limit, offset int) ([]model.OperationLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return r.repo.List(ctx, limit, offset)
}
