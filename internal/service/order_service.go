package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentMethodCard triggers the optional outbound payment-intent leg.
const PaymentMethodCard = "card"

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	intents   payment.IntentCreator // nil when no outbound gateway is configured
	audit     *Recorder
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	intents payment.IntentCreator,
	audit *Recorder,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		intents:   intents,
		audit:     audit,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Checkout snapshots the cart into an order. The snapshot, the order-item
// inserts and the cart clear run in one transaction: either all of it is
// persisted or none of it is.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, shippingAddress, paymentMethod string) (*model.CheckoutResult, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Shipping address is required")
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, model.NewDomainError(model.ErrCodeValidationFailed, "Payment method is required")
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback checkout transaction")
			}
		}
	}()

	// Lock the cart rows so nothing mutates the cart between the price
	// snapshot and the clear.
	lines, err := s.cartRepo.GetLinesForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	// Products deactivated since they were added to the cart are skipped:
	// only live listings get snapshotted into the order.
	active := lines[:0]
	for _, line := range lines {
		if line.IsActive {
			active = append(active, line)
		} else {
			s.logger.Debug().
				Str("user_id", userID.String()).
				Str("product_id", line.ProductID).
				Msg("inactive product dropped from checkout")
		}
	}
	lines = active

	if len(lines) == 0 {
		err = model.ErrEmptyCart
		return nil, err
	}

	total := 0.0
	for _, line := range lines {
		total += line.Subtotal()
	}

	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		OrderDate:       time.Now(),
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		TotalAmount:     total,
		Status:          model.StatusPending,
		PaymentVerified: false,
	}

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	items := make([]model.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = s.cartRepo.ClearTx(ctx, tx, userID); err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to checkout: %w", err)
	}

	s.audit.Record(ctx, &userID, "order", "checkout", order.ID.String(),
		fmt.Sprintf("%d items, total %.2f", len(items), total))

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(items)).
		Float64("total", total).
		Msg("order created")

	result := &model.CheckoutResult{Order: *order, Items: items}

	// The outbound payment leg runs after commit: the order stands even
	// when the gateway is unreachable, and reconciliation arrives later
	// through the notify callback.
	if s.intents != nil && paymentMethod == PaymentMethodCard {
		secret, intentErr := s.intents.CreateIntent(ctx, order.ID, total)
		if intentErr != nil {
			s.logger.Error().
				Err(intentErr).
				Str("order_id", order.ID.String()).
				Msg("payment intent creation failed, order kept")
		} else {
			result.ClientSecret = secret
		}
	}

	return result, nil
}

func (s *orderService) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.OrderDetail, error) {
	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil || order.UserID != userID {
		// Hiding other users' orders behind NotFound avoids confirming
		// their existence.
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderDetail{Order: *order, Items: items}, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return model.NewDomainError(model.ErrCodeValidationFailed, "Status is required")
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}

	s.audit.Record(ctx, nil, "order", "status_update", orderID.String(), status)
	return nil
}
