package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReviewHandler handles review and complaint HTTP requests.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// Create handles POST /api/reviews requests. Submissions are multipart so an
// image can ride along with the fields.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	// One extra megabyte of headroom for the non-file fields.
	if err := r.ParseMultipartForm(model.MaxAttachmentBytes + 1<<20); err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid multipart payload"})
		return
	}

	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		writeStatusError(w, model.ErrInvalidRating, h.logger)
		return
	}

	req := &model.ReviewRequest{
		ProductID: r.PostFormValue("productId"),
		Rating:    rating,
		Content:   r.PostFormValue("content"),
	}

	if raw := r.PostFormValue("replyId"); raw != "" {
		replyID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid reply id"})
			return
		}
		req.ReplyID = &replyID
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()

		// Read one byte past the limit so oversized uploads are detected
		// without buffering the whole thing.
		data, err := io.ReadAll(io.LimitReader(file, model.MaxAttachmentBytes+1))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "failed to read attachment"})
			return
		}
		req.ImageData = data
		req.ImageMIME = header.Header.Get("Content-Type")
	}

	review, err := h.service.Create(r.Context(), principal.UserID, req)
	if err != nil {
		writeStatusError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, StatusResponse{
		Success:  true,
		Message:  "Review submitted",
		ReviewID: review.ID.String(),
	})
}

type updateReviewRequest struct {
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// Update handles PUT /api/reviews/{id} requests.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	reviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid review id"})
		return
	}

	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid request body"})
		return
	}

	if err := h.service.Update(r.Context(), principal.UserID, reviewID, req.Content, req.Rating); err != nil {
		writeStatusError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true, ReviewID: reviewID.String()})
}

// Delete handles DELETE /api/reviews/{id} requests.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	reviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid review id"})
		return
	}

	if err := h.service.Delete(r.Context(), principal.UserID, principal.Role, reviewID); err != nil {
		writeStatusError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

type reportRequest struct {
	Reason      string `json:"reason"`
	Harassment  bool   `json:"harassment"`
	Pornography bool   `json:"pornography"`
	Threat      bool   `json:"threat"`
	Hatred      bool   `json:"hatred"`
}

// Report handles POST /api/reviews/{id}/report requests.
func (h *ReviewHandler) Report(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	reviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid review id"})
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid request body"})
		return
	}

	flags := model.ReportFlags{
		Harassment:  req.Harassment,
		Pornography: req.Pornography,
		Threat:      req.Threat,
		Hatred:      req.Hatred,
	}

	if err := h.service.Report(r.Context(), principal.UserID, reviewID, req.Reason, flags); err != nil {
		writeStatusError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "Report filed", ReviewID: reviewID.String()})
}

// ListForProduct handles GET /api/products/{id}/reviews requests.
func (h *ReviewHandler) ListForProduct(w http.ResponseWriter, r *http.Request) {
	filter := model.ReviewFilter{
		ProductID: r.PathValue("id"),
		Keyword:   r.URL.Query().Get("keyword"),
		Sort:      r.URL.Query().Get("sort"),
		Page:      parseQueryInt(r, "page", 1),
		PageSize:  parseQueryInt(r, "pageSize", 10),
	}

	if raw := r.URL.Query().Get("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid rating filter", h.logger)
			return
		}
		filter.Rating = &rating
	}

	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// StatsForProduct handles GET /api/products/{id}/reviews/stats requests.
func (h *ReviewHandler) StatsForProduct(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
