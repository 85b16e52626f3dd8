package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/mailer"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// allowedImageTypes is the attachment MIME allow-list.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// reviewService implements ReviewService.
type reviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	userRepo   repository.UserRepository
	notifier   mailer.Notifier
	policy     config.PolicyConfig
	audit      *Recorder
	logger     zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	notifier mailer.Notifier,
	policy config.PolicyConfig,
	audit *Recorder,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		policy:     policy,
		audit:      audit,
		logger:     logger.With().Str("service", "review").Logger(),
	}
}

func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, req *model.ReviewRequest) (*model.Review, error) {
	if req.Rating < model.MinRating || req.Rating > model.MaxRating {
		return nil, model.ErrInvalidRating
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Review content is required")
	}
	if req.ProductID == "" {
		return nil, model.ErrProductNotFound
	}

	if len(req.ImageData) > 0 {
		if len(req.ImageData) > model.MaxAttachmentBytes {
			return nil, model.ErrInvalidAttachment
		}
		if !allowedImageTypes[strings.ToLower(req.ImageMIME)] {
			return nil, model.ErrInvalidAttachment
		}
	}

	// A reply must target an existing review, and only a top-level one:
	// reply chains stay one level deep.
	if req.ReplyID != nil {
		parent, err := s.reviewRepo.GetByID(ctx, *req.ReplyID)
		if err != nil {
			return nil, fmt.Errorf("failed to create review: %w", err)
		}
		if parent == nil {
			return nil, model.ErrReviewNotFound
		}
		if parent.ReplyID != nil {
			return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Replies can only target a top-level review")
		}
	}

	if s.policy.RequirePurchase {
		delivered, err := s.orderRepo.HasDeliveredItem(ctx, userID, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to create review: %w", err)
		}
		if !delivered {
			return nil, model.ErrPurchaseRequired
		}
	}

	exists, err := s.reviewRepo.ExistsForUserAndProduct(ctx, userID, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	if exists {
		return nil, model.ErrDuplicateReview
	}

	userName := ""
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil && user != nil {
		userName = user.Username
	}

	review := &model.Review{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: req.ProductID,
		UserName:  userName,
		Content:   req.Content,
		Rating:    req.Rating,
		ImageData: req.ImageData,
		ReplyID:   req.ReplyID,
		IsVisible: true,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &userID, "review", "create", review.ID.String(),
		fmt.Sprintf("%d stars on %s", review.Rating, review.ProductID))

	s.logger.Info().
		Str("review_id", review.ID.String()).
		Str("product_id", review.ProductID).
		Int("rating", review.Rating).
		Msg("review created")

	return review, nil
}

func (s *reviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, content string, rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return model.ErrInvalidRating
	}
	if strings.TrimSpace(content) == "" {
		return model.NewDomainError(model.ErrCodeValidationFailed, "Review content is required")
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if review == nil {
		return model.ErrReviewNotFound
	}

	// Only the author may edit.
	if review.UserID != userID {
		return model.ErrForbidden
	}

	now := time.Now()
	review.Content = content
	review.Rating = rating
	review.UpdatedAt = &now

	return s.reviewRepo.Update(ctx, review)
}

func (s *reviewService) Delete(ctx context.Context, userID uuid.UUID, role string, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if review == nil {
		return model.ErrReviewNotFound
	}

	if review.UserID != userID && role != model.RoleAdmin {
		return model.ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.audit.Record(ctx, &userID, "review", "delete", reviewID.String(), "")
	return nil
}

func (s *reviewService) Hide(ctx context.Context, reviewID uuid.UUID) error {
	if err := s.reviewRepo.SetVisibility(ctx, reviewID, false); err != nil {
		return err
	}

	s.audit.Record(ctx, nil, "review", "hide", reviewID.String(), "")
	return nil
}

func (s *reviewService) Report(ctx context.Context, reporterID, reviewID uuid.UUID, reason string, flags model.ReportFlags) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("failed to report review: %w", err)
	}
	if review == nil {
		return model.ErrReviewNotFound
	}

	report := &model.ReviewReport{
		ID:         uuid.New(),
		ReviewID:   reviewID,
		ReporterID: reporterID,
		Flags:      flags,
		Reason:     reason,
		Processed:  false,
		CreatedAt:  time.Now(),
	}

	if err := s.reviewRepo.CreateReport(ctx, report); err != nil {
		return err
	}

	s.audit.Record(ctx, &reporterID, "review", "report", reviewID.String(), reason)

	// Moderator notification is best-effort: the report stands even when
	// the mail bounces.
	subject := fmt.Sprintf("Review %s reported", reviewID)
	body := fmt.Sprintf("Reporter: %s\nReason: %s\nFlags: harassment=%t pornography=%t threat=%t hatred=%t\n",
		reporterID, reason, flags.Harassment, flags.Pornography, flags.Threat, flags.Hatred)
	if err := s.notifier.Notify(ctx, subject, body); err != nil {
		s.logger.Warn().Err(err).Str("review_id", reviewID.String()).Msg("moderator notification failed")
	}

	return nil
}

func (s *reviewService) List(ctx context.Context, filter model.ReviewFilter) (*model.ReviewPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	if filter.Rating != nil && (*filter.Rating < model.MinRating || *filter.Rating > model.MaxRating) {
		return nil, model.ErrInvalidRating
	}

	reviews, total, err := s.reviewRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	totalPages := (total + filter.PageSize - 1) / filter.PageSize

	return &model.ReviewPage{
		Data:       reviews,
		TotalItems: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *reviewService) Stats(ctx context.Context, productID string) (*model.ReviewStats, error) {
	if productID == "" {
		return nil, model.ErrProductNotFound
	}

	stats, err := s.reviewRepo.Stats(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review stats: %w", err)
	}

	return stats, nil
}

func (s *reviewService) ListReports(ctx context.Context, limit, offset int) ([]model.ReviewReport, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	reports, err := s.reviewRepo.ListUnprocessedReports(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return reports, nil
}

func (s *reviewService) ProcessReport(ctx context.Context, reportID uuid.UUID) error {
	if err := s.reviewRepo.MarkReportProcessed(ctx, reportID); err != nil {
		return err
	}

	s.audit.Record(ctx, nil, "review", "report_processed", reportID.String(), "")
	return nil
}
