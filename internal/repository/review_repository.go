package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const reviewColumns = `id, user_id, product_id, user_name, content, rating,
		image_data, reply_id, is_visible, created_at, updated_at`

// reviewRepository implements the ReviewRepository interface using PostgreSQL.
type reviewRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

func scanReview(row pgx.Row, rv *model.Review) error {
	return row.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.UserName, &rv.Content,
		&rv.Rating, &rv.ImageData, &rv.ReplyID, &rv.IsVisible, &rv.CreatedAt, &rv.UpdatedAt)
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID, review.UserID, review.ProductID, review.UserName, review.Content,
		review.Rating, review.ImageData, review.ReplyID, review.IsVisible,
		review.CreatedAt, review.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().
				Str("user_id", review.UserID.String()).
				Str("product_id", review.ProductID).
				Msg("duplicate review")
			return model.ErrDuplicateReview
		}
		r.logger.Error().Err(err).Str("review_id", review.ID.String()).Msg("failed to create review")
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var rv model.Review
	if err := scanReview(r.pool.QueryRow(ctx, query, id), &rv); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}

	return &rv, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET content = $2, rating = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, review.ID, review.Content, review.Rating, review.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", review.ID.String()).Msg("failed to update review")
		return fmt.Errorf("failed to update review: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to delete review")
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

func (r *reviewRepository) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE reviews SET is_visible = $2 WHERE id = $1`, id, visible)
	if err != nil {
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to set review visibility")
		return fmt.Errorf("failed to set review visibility: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

func (r *reviewRepository) ExistsForUserAndProduct(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, productID).Scan(&exists); err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID).
			Msg("failed to check existing review")
		return false, fmt.Errorf("failed to check existing review: %w", err)
	}

	return exists, nil
}

func (r *reviewRepository) List(ctx context.Context, filter model.ReviewFilter) ([]model.Review, int, error) {
	where := `WHERE is_visible`
	args := []any{}

	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		where += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		where += fmt.Sprintf(" AND content ILIKE $%d", len(args))
	}
	if filter.Rating != nil {
		args = append(args, *filter.Rating)
		where += fmt.Sprintf(" AND rating = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM reviews ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count reviews")
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	var orderBy string
	switch filter.Sort {
	case model.SortOldest:
		orderBy = "created_at ASC"
	case model.SortHighScore:
		orderBy = "rating DESC, created_at DESC"
	case model.SortLowScore:
		orderBy = "rating ASC, created_at DESC"
	default:
		orderBy = "created_at DESC"
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	listQuery := fmt.Sprintf(`SELECT %s FROM reviews %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		reviewColumns, where, orderBy, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query reviews")
		return nil, 0, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		if err := scanReview(rows, &rv); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review row")
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating review rows")
		return nil, 0, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *reviewRepository) Stats(ctx context.Context, productID string) (*model.ReviewStats, error) {
	query := `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE product_id = $1 AND is_visible
		GROUP BY rating
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query review stats")
		return nil, fmt.Errorf("failed to query review stats: %w", err)
	}
	defer rows.Close()

	stats := &model.ReviewStats{}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan review stats: %w", err)
		}
		if rating >= model.MinRating && rating <= model.MaxRating {
			stats.Histogram[rating-1] = count
			stats.Total += count
			sum += rating * count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review stats: %w", err)
	}

	if stats.Total > 0 {
		stats.Average = float64(sum) / float64(stats.Total)
	}

	return stats, nil
}

func (r *reviewRepository) CreateReport(ctx context.Context, report *model.ReviewReport) error {
	query := `
		INSERT INTO review_reports (id, review_id, reporter_id, harassment, pornography,
			threat, hatred, reason, processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		report.ID, report.ReviewID, report.ReporterID,
		report.Flags.Harassment, report.Flags.Pornography, report.Flags.Threat, report.Flags.Hatred,
		report.Reason, report.Processed, report.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().
				Str("reporter_id", report.ReporterID.String()).
				Str("review_id", report.ReviewID.String()).
				Msg("duplicate report")
			return model.ErrDuplicateReport
		}
		r.logger.Error().Err(err).Str("review_id", report.ReviewID.String()).Msg("failed to create report")
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (r *reviewRepository) ListUnprocessedReports(ctx context.Context, limit, offset int) ([]model.ReviewReport, error) {
	query := `
		SELECT id, review_id, reporter_id, harassment, pornography, threat, hatred,
			reason, processed, created_at
		FROM review_reports
		WHERE NOT processed
		ORDER BY created_at
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query reports")
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []model.ReviewReport
	for rows.Next() {
		var rp model.ReviewReport
		err := rows.Scan(&rp.ID, &rp.ReviewID, &rp.ReporterID,
			&rp.Flags.Harassment, &rp.Flags.Pornography, &rp.Flags.Threat, &rp.Flags.Hatred,
			&rp.Reason, &rp.Processed, &rp.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan report row")
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rp)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating report rows")
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

func (r *reviewRepository) MarkReportProcessed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE review_reports SET processed = TRUE WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("report_id", id.String()).Msg("failed to mark report processed")
		return fmt.Errorf("failed to mark report processed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}
