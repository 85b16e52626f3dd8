package handler

import (
	"net/http"

	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler receives asynchronous gateway callbacks.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Notify handles POST /payment/notify requests. The gateway retries until it
// reads a 2xx "OK", so every outcome except a storage failure acknowledges:
// a malformed or irrelevant payload will never become valid on retry.
func (h *PaymentHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn().Err(err).Msg("unparseable notify payload acknowledged")
		h.ack(w)
		return
	}

	if err := h.service.ProcessNotification(r.Context(), r.PostFormValue("TradeInfo")); err != nil {
		h.logger.Error().Err(err).Msg("payment notification deferred for retry")
		http.Error(w, "retry", http.StatusInternalServerError)
		return
	}

	h.ack(w)
}

func (h *PaymentHandler) ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
