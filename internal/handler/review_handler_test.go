package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReviewService is a mock implementation of ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, userID uuid.UUID, req *model.ReviewRequest) (*model.Review, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, userID, reviewID uuid.UUID, content string, rating int) error {
	args := m.Called(ctx, userID, reviewID, content, rating)
	return args.Error(0)
}

func (m *MockReviewService) Delete(ctx context.Context, userID uuid.UUID, role string, reviewID uuid.UUID) error {
	args := m.Called(ctx, userID, role, reviewID)
	return args.Error(0)
}

func (m *MockReviewService) Hide(ctx context.Context, reviewID uuid.UUID) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

func (m *MockReviewService) Report(ctx context.Context, reporterID, reviewID uuid.UUID, reason string, flags model.ReportFlags) error {
	args := m.Called(ctx, reporterID, reviewID, reason, flags)
	return args.Error(0)
}

func (m *MockReviewService) List(ctx context.Context, filter model.ReviewFilter) (*model.ReviewPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewPage), args.Error(1)
}

func (m *MockReviewService) Stats(ctx context.Context, productID string) (*model.ReviewStats, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewStats), args.Error(1)
}

func (m *MockReviewService) ListReports(ctx context.Context, limit, offset int) ([]model.ReviewReport, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReviewReport), args.Error(1)
}

func (m *MockReviewService) ProcessReport(ctx context.Context, reportID uuid.UUID) error {
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

// multipartReview builds a multipart review submission.
func multipartReview(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if image != nil {
		part, err := mw.CreateFormFile("image", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestReviewHandler_Create(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()
	reviewID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockReviews := new(MockReviewService)
		h := NewReviewHandler(mockReviews, logger)

		mockReviews.On("Create", mock.Anything, userID, mock.MatchedBy(func(req *model.ReviewRequest) bool {
			return req.ProductID == "P001" && req.Rating == 4 && req.Content == "Solid"
		})).Return(&model.Review{ID: reviewID, UserID: userID, ProductID: "P001", Rating: 4}, nil)

		body, contentType := multipartReview(t, map[string]string{
			"productId": "P001",
			"rating":    "4",
			"content":   "Solid",
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews", body)
		req.Header.Set("Content-Type", contentType)
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
		assert.Contains(t, w.Body.String(), reviewID.String())
	})

	t.Run("With image attachment", func(t *testing.T) {
		mockReviews := new(MockReviewService)
		h := NewReviewHandler(mockReviews, logger)

		image := bytes.Repeat([]byte{0xff}, 512)
		mockReviews.On("Create", mock.Anything, userID, mock.MatchedBy(func(req *model.ReviewRequest) bool {
			return len(req.ImageData) == 512 && req.ImageMIME != ""
		})).Return(&model.Review{ID: reviewID, UserID: userID, ProductID: "P001", Rating: 5}, nil)

		body, contentType := multipartReview(t, map[string]string{
			"productId": "P001",
			"rating":    "5",
			"content":   "Great",
		}, image)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews", body)
		req.Header.Set("Content-Type", contentType)
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Non-numeric rating", func(t *testing.T) {
		mockReviews := new(MockReviewService)
		h := NewReviewHandler(mockReviews, logger)

		body, contentType := multipartReview(t, map[string]string{
			"productId": "P001",
			"rating":    "lots",
			"content":   "Solid",
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews", body)
		req.Header.Set("Content-Type", contentType)
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockReviews.AssertNotCalled(t, "Create")
	})

	t.Run("Rating out of bounds", func(t *testing.T) {
		mockReviews := new(MockReviewService)
		h := NewReviewHandler(mockReviews, logger)

		mockReviews.On("Create", mock.Anything, userID, mock.AnythingOfType("*model.ReviewRequest")).
			Return(nil, model.ErrInvalidRating)

		body, contentType := multipartReview(t, map[string]string{
			"productId": "P001",
			"rating":    "9",
			"content":   "Solid",
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews", body)
		req.Header.Set("Content-Type", contentType)
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("Duplicate review", func(t *testing.T) {
		mockReviews := new(MockReviewService)
		h := NewReviewHandler(mockReviews, logger)

		mockReviews.On("Create", mock.Anything, userID, mock.AnythingOfType("*model.ReviewRequest")).
			Return(nil, model.ErrDuplicateReview)

		body, contentType := multipartReview(t, map[string]string{
			"productId": "P001",
			"rating":    "4",
			"content":   "Solid",
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews", body)
		req.Header.Set("Content-Type", contentType)
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.Create(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		mockReviews := new(MockReviewService)
		h := NewReviewHandler(mockReviews, logger)

		body, contentType := multipartReview(t, map[string]string{
			"productId": "P001",
			"rating":    "4",
			"content":   "Solid",
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/reviews", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()

		h.Create(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestReviewHandler_Report(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()
	reviewID := uuid.New()

	mockReviews := new(MockReviewService)
	h := NewReviewHandler(mockReviews, logger)

	expectedFlags := model.ReportFlags{Harassment: true, Threat: true}
	mockReviews.On("Report", mock.Anything, userID, reviewID, "abusive", expectedFlags).Return(nil)

	body := `{"reason": "abusive", "harassment": true, "threat": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews/"+reviewID.String()+"/report", strings.NewReader(body))
	req.SetPathValue("id", reviewID.String())
	req = withPrincipal(req, userID, model.RoleUser)
	w := httptest.NewRecorder()

	h.Report(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	mockReviews.AssertExpectations(t)
}

func TestReviewHandler_ListForProduct(t *testing.T) {
	logger := zerolog.Nop()

	mockReviews := new(MockReviewService)
	h := NewReviewHandler(mockReviews, logger)

	rating := 5
	expectedFilter := model.ReviewFilter{
		ProductID: "P001",
		Keyword:   "great",
		Rating:    &rating,
		Sort:      model.SortHighScore,
		Page:      2,
		PageSize:  5,
	}
	page := &model.ReviewPage{Data: []model.Review{}, TotalItems: 12, Page: 2, PageSize: 5, TotalPages: 3}
	mockReviews.On("List", mock.Anything, expectedFilter).Return(page, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/products/P001/reviews?keyword=great&rating=5&sort=highscore&page=2&pageSize=5", nil)
	req.SetPathValue("id", "P001")
	w := httptest.NewRecorder()

	h.ListForProduct(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalItems":12`)
	mockReviews.AssertExpectations(t)
}
