package handler

import (
	"errors"
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles the checkout flow and order retrieval. Checkout keeps
// the storefront's browser contract: a form POST answered with a redirect.
type OrderHandler struct {
	service service.OrderService
	cart    service.CartService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, cart service.CartService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		cart:    cart,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// CheckoutPage handles GET /order/checkout requests, returning the cart
// priced for review before the user confirms.
func (h *OrderHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	lines, err := h.cart.GetLines(r.Context(), principal.UserID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	total := 0.0
	for _, line := range lines {
		total += line.Subtotal()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lines": lines,
		"total": total,
	})
}

// Checkout handles POST /order/checkout requests. The form POST is answered
// with a 303 to the confirmation page, or back to /cart when the cart is
// empty.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form payload", h.logger)
		return
	}

	result, err := h.service.Checkout(r.Context(), principal.UserID,
		r.PostFormValue("address"), r.PostFormValue("paymentMethod"))
	if err != nil {
		if errors.Is(err, model.ErrEmptyCart) {
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}
		writeDomainError(w, err, h.logger)
		return
	}

	http.Redirect(w, r, "/order/confirm/"+result.Order.ID.String(), http.StatusSeeOther)
}

// Confirm handles GET /order/confirm/{id} requests.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id", h.logger)
		return
	}

	detail, err := h.service.GetByID(r.Context(), principal.UserID, orderID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// List handles GET /api/orders requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorised", h.logger)
		return
	}

	orders, err := h.service.ListByUser(r.Context(), principal.UserID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
