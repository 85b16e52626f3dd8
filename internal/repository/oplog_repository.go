package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// operationLogRepository implements the OperationLogRepository interface
// using PostgreSQL.
type operationLogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOperationLogRepository creates a new PostgreSQL-backed audit repository.
func NewOperationLogRepository(pool *pgxpool.Pool, logger zerolog.Logger) OperationLogRepository {
	return &operationLogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "oplog").Logger(),
	}
}

func (r *operationLogRepository) Append(ctx context.Context, entry *model.OperationLog) error {
	query := `
		INSERT INTO operation_logs (id, actor_id, category, action, target_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.ActorID, entry.Category, entry.Action,
		entry.TargetID, entry.Detail, entry.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("category", entry.Category).Msg("failed to append operation log")
		return fmt.Errorf("failed to append operation log: %w", err)
	}

	return nil
}

func (r *operationLogRepository) List(ctx context.Context, limit, offset int) ([]model.OperationLog, error) {
	query := `
		SELECT id, actor_id, category, action, target_id, detail, created_at
		FROM operation_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query operation logs")
		return nil, fmt.Errorf("failed to query operation logs: %w", err)
	}
	defer rows.Close()

	var entries []model.OperationLog
	for rows.Next() {
		var e model.OperationLog
		err := rows.Scan(&e.ID, &e.ActorID, &e.Category, &e.Action, &e.TargetID, &e.Detail, &e.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan operation log row")
			return nil, fmt.Errorf("failed to scan operation log: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating operation log rows")
		return nil, fmt.Errorf("error iterating operation logs: %w", err)
	}

	return entries, nil
}
