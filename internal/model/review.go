package model

import (
	"time"

	"github.com/google/uuid"
)

// Review rating bounds and attachment limits.
const (
	MinRating          = 1
	MaxRating          = 5
	MaxAttachmentBytes = 5 * 1024 * 1024
)

// Review is a user-submitted rating/comment on a product, optionally
// replying to another review (one level deep).
type Review struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	ProductID string     `json:"productId" db:"product_id"`
	UserName  string     `json:"userName" db:"user_name"`
	Content   string     `json:"content" db:"content"`
	Rating    int        `json:"rating" db:"rating"`
	ImageData []byte     `json:"-" db:"image_data"`
	ReplyID   *uuid.UUID `json:"replyId,omitempty" db:"reply_id"`
	IsVisible bool       `json:"isVisible" db:"is_visible"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// ReviewRequest carries the fields of a review submission.
type ReviewRequest struct {
	ProductID string
	Rating    int
	Content   string
	ReplyID   *uuid.UUID
	ImageData []byte
	ImageMIME string
}

// ReportFlags are the complaint categories of a review report.
type ReportFlags struct {
	Harassment  bool `json:"harassment"`
	Pornography bool `json:"pornography"`
	Threat      bool `json:"threat"`
	Hatred      bool `json:"hatred"`
}

// ReviewReport is a complaint against a review. At most one report per
// (reporter, review).
type ReviewReport struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	ReviewID   uuid.UUID   `json:"reviewId" db:"review_id"`
	ReporterID uuid.UUID   `json:"reporterId" db:"reporter_id"`
	Flags      ReportFlags `json:"flags"`
	Reason     string      `json:"reason" db:"reason"`
	Processed  bool        `json:"processed" db:"processed"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
}

// Review listing sort orders.
const (
	SortLatest    = "latest"
	SortOldest    = "oldest"
	SortHighScore = "highscore"
	SortLowScore  = "lowscore"
)

// ReviewFilter narrows and pages a review listing.
type ReviewFilter struct {
	ProductID string
	Keyword   string
	Rating    *int
	Sort      string
	Page      int
	PageSize  int
}

// ReviewPage is a paginated review listing.
type ReviewPage struct {
	Data       []Review `json:"data"`
	TotalItems int      `json:"totalItems"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}

// ReviewStats holds the derived average rating and per-star histogram for
// a product. Histogram[0] counts 1-star reviews.
type ReviewStats struct {
	Average   float64 `json:"average"`
	Total     int     `json:"total"`
	Histogram [5]int  `json:"histogram"`
}
