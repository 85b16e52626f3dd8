package service

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	policy      config.PolicyConfig
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	policy config.PolicyConfig,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		policy:      policy,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	if !product.IsActive {
		return nil, model.ErrProductInactive
	}

	if err := s.checkStock(ctx, userID, product, quantity); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.AddItem(ctx, userID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("product_id", productID).
		Int("quantity", item.Quantity).
		Msg("cart item merged")

	return item, nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if item == nil || item.UserID != userID {
		return model.ErrCartItemNotFound
	}

	// Setting a non-positive quantity removes the line.
	if quantity <= 0 {
		return s.cartRepo.RemoveItem(ctx, itemID)
	}

	if s.policy.EnforceStock {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to update cart item: %w", err)
		}
		if product != nil && product.Stock != nil && quantity > *product.Stock {
			return model.ErrInsufficientStock
		}
	}

	return s.cartRepo.UpdateQuantity(ctx, itemID, quantity)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if item == nil {
		// Removing an absent line is a success.
		return nil
	}
	if item.UserID != userID {
		return model.ErrCartItemNotFound
	}

	return s.cartRepo.RemoveItem(ctx, itemID)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.Clear(ctx, userID)
}

func (s *cartService) Count(ctx context.Context, userID uuid.UUID) int {
	if userID == uuid.Nil {
		return 0
	}

	count, err := s.cartRepo.Count(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID.String()).Msg("cart count failed, returning 0")
		return 0
	}

	return count
}

func (s *cartService) GetLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return lines, nil
}

// checkStock rejects an add that would push the cart line past available
// stock. Stock is a soft constraint: the check only runs under the policy
// flag and products without a stock figure always pass.
func (s *cartService) checkStock(ctx context.Context, userID uuid.UUID, product *model.Product, quantity int) error {
	if !s.policy.EnforceStock || product.Stock == nil {
		return nil
	}

	existing := 0
	lines, err := s.cartRepo.GetLines(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check stock: %w", err)
	}
	for _, line := range lines {
		if line.ProductID == product.ID {
			existing = line.Quantity
			break
		}
	}

	if existing+quantity > *product.Stock {
		s.logger.Debug().
			Str("product_id", product.ID).
			Int("existing", existing).
			Int("requested", quantity).
			Int("stock", *product.Stock).
			Msg("stock exceeded")
		return model.ErrInsufficientStock
	}

	return nil
}
