package handler

import (
	"encoding/json"
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. All endpoints except Count require
// a customer session.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type countResponse struct {
	Count int `json:"count"`
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	lines, err := h.service.GetLines(r.Context(), principal.UserID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, lines)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid request body"})
		return
	}

	if _, err := h.service.AddItem(r.Context(), principal.UserID, req.ProductID, req.Quantity); err != nil {
		writeStatusError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "Item added to cart"})
}

// UpdateItem handles PUT /api/cart/items/{id} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid item id"})
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid request body"})
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), principal.UserID, itemID, req.Quantity); err != nil {
		writeStatusError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, StatusResponse{Success: false, Message: "invalid item id"})
		return
	}

	if err := h.service.RemoveItem(r.Context(), principal.UserID, itemID); err != nil {
		writeStatusError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	if err := h.service.Clear(r.Context(), principal.UserID); err != nil {
		writeStatusError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// Count handles GET /api/cart/count requests. Anonymous callers get a zero
// badge rather than a 401.
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	userID := uuid.Nil
	if principal, ok := auth.FromContext(r.Context()); ok {
		userID = principal.UserID
	}

	writeJSON(w, http.StatusOK, countResponse{Count: h.service.Count(r.Context(), userID)})
}
