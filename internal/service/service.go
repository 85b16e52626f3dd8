package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// AccountService defines operations for registration and login.
type AccountService interface {
	// Register creates a customer account with a hashed password.
	Register(ctx context.Context, username, email, password string) (*model.User, error)

	// Login authenticates a customer.
	Login(ctx context.Context, email, password string) (*model.User, error)

	// BackofficeLogin authenticates a back-office engineer. Non-admin
	// accounts are rejected even with valid credentials.
	BackofficeLogin(ctx context.Context, email, password string) (*model.User, error)
}

// UserAdminService defines back-office account management.
type UserAdminService interface {
	// List retrieves accounts matching the keyword, paginated.
	List(ctx context.Context, keyword string, page, pageSize int) (*model.UserPage, error)

	// GetByID retrieves a single account.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// Create adds an account with an explicit role.
	Create(ctx context.Context, actorID *uuid.UUID, req *model.AdminUserRequest) (*model.User, error)

	// Update rewrites an account; a non-empty password replaces the hash.
	Update(ctx context.Context, actorID *uuid.UUID, id uuid.UUID, req *model.AdminUserRequest) (*model.User, error)

	// Delete removes an account. Accounts with order history are refused
	// and should be deactivated instead.
	Delete(ctx context.Context, actorID *uuid.UUID, id uuid.UUID) error

	// SetActiveBatch flips the active flag on several accounts at once and
	// returns how many changed.
	SetActiveBatch(ctx context.Context, actorID *uuid.UUID, ids []uuid.UUID, active bool) (int, error)
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create and Update are back-office operations.
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
}

// CartService defines operations for the per-user cart.
type CartService interface {
	// AddItem merges quantity into the user's cart line for the product.
	AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*model.CartItem, error)

	// UpdateQuantity sets a line's quantity; zero or negative deletes it.
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error

	// RemoveItem deletes a line. Idempotent.
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error

	// Clear empties the user's cart. Idempotent.
	Clear(ctx context.Context, userID uuid.UUID) error

	// Count returns the summed quantity, 0 on any failure. UI badges
	// prefer a zero over an error.
	Count(ctx context.Context, userID uuid.UUID) int

	// GetLines returns the cart priced at current effective prices.
	GetLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)
}

// OrderService defines checkout and order retrieval.
type OrderService interface {
	// Checkout snapshots the user's cart into an order and empties the
	// cart, all-or-nothing.
	Checkout(ctx context.Context, userID uuid.UUID, shippingAddress, paymentMethod string) (*model.CheckoutResult, error)

	// GetByID retrieves an order owned by the user.
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.OrderDetail, error)

	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// UpdateStatus is a back-office operation on the free-text status.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
}

// PaymentService processes asynchronous gateway callbacks.
type PaymentService interface {
	// ProcessNotification decrypts and applies one TradeInfo payload.
	// Undecryptable or unrecognised payloads are swallowed after logging;
	// only storage failures return an error, so the caller can signal the
	// gateway to retry exactly those.
	ProcessNotification(ctx context.Context, tradeInfo string) error
}

// ReviewService defines review, complaint and moderation operations.
type ReviewService interface {
	Create(ctx context.Context, userID uuid.UUID, req *model.ReviewRequest) (*model.Review, error)
	Update(ctx context.Context, userID, reviewID uuid.UUID, content string, rating int) error

	// Delete is permitted for the author or a moderator role.
	Delete(ctx context.Context, userID uuid.UUID, role string, reviewID uuid.UUID) error

	// Hide is a back-office operation that keeps the row but removes it
	// from listings.
	Hide(ctx context.Context, reviewID uuid.UUID) error

	// Report files a complaint and notifies moderators best-effort.
	Report(ctx context.Context, reporterID, reviewID uuid.UUID, reason string, flags model.ReportFlags) error

	List(ctx context.Context, filter model.ReviewFilter) (*model.ReviewPage, error)
	Stats(ctx context.Context, productID string) (*model.ReviewStats, error)

	ListReports(ctx context.Context, limit, offset int) ([]model.ReviewReport, error)
	ProcessReport(ctx context.Context, reportID uuid.UUID) error
}

// DeviceService registers push-notification tokens.
type DeviceService interface {
	Register(ctx context.Context, userID uuid.UUID, token, platform string) error
}
