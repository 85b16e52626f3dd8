package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// StatusResponse is the {success, message} shape the storefront UI expects
// from cart and review mutations.
type StatusResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	ReviewID string `json:"reviewId,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a service error onto an HTTP status. Unrecognised
// errors read as 500 without leaking their message.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	status := http.StatusBadRequest
	switch domainErr.Code {
	case model.ErrCodeProductNotFound,
		model.ErrCodeCartItemNotFound,
		model.ErrCodeOrderNotFound,
		model.ErrCodeReviewNotFound,
		model.ErrCodeUserNotFound:
		status = http.StatusNotFound
	case model.ErrCodeEmailTaken,
		model.ErrCodeDuplicateReview,
		model.ErrCodeDuplicateReport:
		status = http.StatusConflict
	case model.ErrCodeInvalidCredentials,
		model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	case model.ErrCodeForbidden,
		model.ErrCodePurchaseRequired:
		status = http.StatusForbidden
	case model.ErrCodeInternalError:
		status = http.StatusInternalServerError
	}

	logger.Debug().Str("code", domainErr.Code).Int("status", status).Msg("domain error")
	writeJSON(w, status, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
}

// writeStatusError is writeDomainError for endpoints speaking the
// {success, message} dialect.
func writeStatusError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, StatusResponse{Success: false, Message: "internal server error"})
		return
	}

	status := http.StatusBadRequest
	switch domainErr.Code {
	case model.ErrCodeProductNotFound, model.ErrCodeCartItemNotFound, model.ErrCodeReviewNotFound:
		status = http.StatusNotFound
	case model.ErrCodeDuplicateReview, model.ErrCodeDuplicateReport:
		status = http.StatusConflict
	case model.ErrCodePurchaseRequired, model.ErrCodeForbidden:
		status = http.StatusForbidden
	}

	writeJSON(w, status, StatusResponse{Success: false, Message: domainErr.Message})
}
