package handler

import (
	"encoding/json"
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminHandler hosts the back-office surface. Every route behind it runs
// under the back-office session scheme plus the admin role guard.
type AdminHandler struct {
	products service.ProductService
	orders   service.OrderService
	reviews  service.ReviewService
	users    service.UserAdminService
	audit    *service.Recorder
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	products service.ProductService,
	orders service.OrderService,
	reviews service.ReviewService,
	users service.UserAdminService,
	audit *service.Recorder,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		products: products,
		orders:   orders,
		reviews:  reviews,
		users:    users,
		audit:    audit,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// CreateProduct handles POST /api/admin/products requests.
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.products.Create(r.Context(), &product); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.audit.Record(r.Context(), actorID(r), "product", "create", product.ID, product.Name)
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/admin/products/{id} requests.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product model.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	product.ID = r.PathValue("id")

	if err := h.products.Update(r.Context(), &product); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.audit.Record(r.Context(), actorID(r), "product", "update", product.ID, product.Name)
	writeJSON(w, http.StatusOK, product)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles PUT /api/admin/orders/{id}/status requests.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id", h.logger)
		return
	}

	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, req.Status); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// HideReview handles POST /api/admin/reviews/{id}/hide requests.
func (h *AdminHandler) HideReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid review id", h.logger)
		return
	}

	if err := h.reviews.Hide(r.Context(), reviewID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// ListReports handles GET /api/admin/reports requests.
func (h *AdminHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reviews.ListReports(r.Context(),
		parseQueryInt(r, "limit", 50), parseQueryInt(r, "offset", 0))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// ProcessReport handles POST /api/admin/reports/{id}/process requests.
func (h *AdminHandler) ProcessReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid report id", h.logger)
		return
	}

	if err := h.reviews.ProcessReport(r.Context(), reportID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// ListUsers handles GET /api/admin/users requests.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.users.List(r.Context(), r.URL.Query().Get("keyword"),
		parseQueryInt(r, "page", 1), parseQueryInt(r, "pageSize", 20))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetUser handles GET /api/admin/users/{id} requests.
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", h.logger)
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /api/admin/users requests.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.AdminUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.users.Create(r.Context(), actorID(r), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// UpdateUser handles PUT /api/admin/users/{id} requests.
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", h.logger)
		return
	}

	var req model.AdminUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	user, err := h.users.Update(r.Context(), actorID(r), userID, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/admin/users/{id} requests.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", h.logger)
		return
	}

	if err := h.users.Delete(r.Context(), actorID(r), userID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

type batchUserStatusRequest struct {
	UserIDs  []uuid.UUID `json:"userIds"`
	IsActive bool        `json:"isActive"`
}

type batchUserStatusResponse struct {
	Success      bool `json:"success"`
	UpdatedCount int  `json:"updatedCount"`
}

// BatchUserStatus handles PATCH /api/admin/users/batch-status requests.
func (h *AdminHandler) BatchUserStatus(w http.ResponseWriter, r *http.Request) {
	var req batchUserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	updated, err := h.users.SetActiveBatch(r.Context(), actorID(r), req.UserIDs, req.IsActive)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, batchUserStatusResponse{Success: true, UpdatedCount: updated})
}

// actorID extracts the authenticated admin's id for audit rows, nil when
// the request carries no principal.
func actorID(r *http.Request) *uuid.UUID {
	if principal, ok := auth.FromContext(r.Context()); ok {
		return &principal.UserID
	}
	return nil
}

// ListLogs handles GET /api/admin/logs requests.
func (h *AdminHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.audit.List(r.Context(),
		parseQueryInt(r, "limit", 50), parseQueryInt(r, "offset", 0))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}
