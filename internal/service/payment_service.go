package service

import (
	"context"
	"fmt"

	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// paymentService implements PaymentService.
type paymentService struct {
	codec     *payment.Codec
	orderRepo repository.OrderRepository
	audit     *Recorder
	logger    zerolog.Logger
}

// NewPaymentService creates a new payment reconciliation service.
func NewPaymentService(
	codec *payment.Codec,
	orderRepo repository.OrderRepository,
	audit *Recorder,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		codec:     codec,
		orderRepo: orderRepo,
		audit:     audit,
		logger:    logger.With().Str("service", "payment").Logger(),
	}
}

// ProcessNotification applies one gateway callback. The gateway sends many
// notification shapes and retries on non-2xx responses, so everything
// short of a storage failure is swallowed after logging: returning an
// error here means "retry", nothing else.
func (s *paymentService) ProcessNotification(ctx context.Context, tradeInfo string) error {
	n, err := s.codec.DecryptNotification(tradeInfo)
	if err != nil {
		s.logger.Warn().Err(err).Msg("undecryptable payment notification dropped")
		return nil
	}

	if n.Status != payment.StatusSuccess {
		s.logger.Info().
			Str("status", n.Status).
			Str("merchant_order_no", n.Result.MerchantOrderNo).
			Msg("non-success payment notification ignored")
		return nil
	}

	orderID, err := uuid.Parse(n.Result.MerchantOrderNo)
	if err != nil {
		s.logger.Warn().
			Str("merchant_order_no", n.Result.MerchantOrderNo).
			Msg("payment notification with unrecognised order reference dropped")
		return nil
	}

	// Idempotent: a duplicate delivery re-runs the same UPDATE and
	// changes nothing.
	found, err := s.orderRepo.MarkPaymentVerified(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to apply payment notification: %w", err)
	}

	if !found {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Msg("payment notification for unknown order dropped")
		return nil
	}

	s.audit.Record(ctx, nil, "payment", "verified", orderID.String(), n.Result.TradeNo)
	s.logger.Info().Str("order_id", orderID.String()).Msg("payment verified")

	return nil
}
