package repository

import (
	"context"
	"errors"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepository defines the interface for account data access.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email. Returns (nil, nil) when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by id. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// List retrieves accounts matching the keyword over username and email,
	// newest first, plus the total match count for pagination.
	List(ctx context.Context, keyword string, limit, offset int) ([]model.User, int, error)

	// Update rewrites an account. Returns model.ErrUserNotFound when absent
	// and model.ErrEmailTaken when the email belongs to another account.
	Update(ctx context.Context, user *model.User) error

	// Delete removes an account. Returns model.ErrUserNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetActiveBatch flips the active flag on the given accounts and
	// returns how many rows changed.
	SetActiveBatch(ctx context.Context, ids []uuid.UUID, active bool) (int, error)
}

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves active products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns (nil, nil)
	// when absent.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create inserts a new catalogue entry.
	Create(ctx context.Context, product *model.Product) error

	// Update rewrites a catalogue entry.
	Update(ctx context.Context, product *model.Product) error
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// AddItem merges quantity into the user's cart row for the product,
	// inserting the row on first add. The merge is a single atomic upsert
	// so concurrent adds both land in the final quantity.
	AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*model.CartItem, error)

	// GetItem retrieves a cart item by id. Returns (nil, nil) when absent.
	GetItem(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error)

	// UpdateQuantity sets the quantity of a cart item.
	UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error

	// RemoveItem deletes a cart item. Idempotent.
	RemoveItem(ctx context.Context, itemID uuid.UUID) error

	// Clear deletes all cart items for the user. Idempotent.
	Clear(ctx context.Context, userID uuid.UUID) error

	// ClearTx deletes all cart items for the user within a transaction.
	ClearTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error

	// Count returns the summed quantity across the user's cart.
	Count(ctx context.Context, userID uuid.UUID) (int, error)

	// GetLines retrieves the user's cart joined with current product
	// pricing, discount window applied.
	GetLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error)

	// GetLinesForUpdate is GetLines inside a transaction with the cart
	// rows locked, so checkout snapshots a stable cart.
	GetLinesForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartLine, error)
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns (nil, nil, nil)
	// when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// ListByUser retrieves the user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// MarkPaymentVerified flips the payment flag. Idempotent: flipping an
	// already-true flag is a successful no-op. Returns whether the order
	// exists.
	MarkPaymentVerified(ctx context.Context, id uuid.UUID) (bool, error)

	// UpdateStatus sets the free-text order status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// HasDeliveredItem reports whether the user has a delivered order
	// containing the product.
	HasDeliveredItem(ctx context.Context, userID uuid.UUID, productID string) (bool, error)

	// ExistsForUser reports whether the user has placed any order.
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ReviewRepository defines the interface for review and report data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error

	// ExistsForUserAndProduct reports whether the user already reviewed
	// the product.
	ExistsForUserAndProduct(ctx context.Context, userID uuid.UUID, productID string) (bool, error)

	// List retrieves visible reviews matching the filter plus the total
	// match count for pagination.
	List(ctx context.Context, filter model.ReviewFilter) ([]model.Review, int, error)

	// Stats computes the derived average rating and histogram.
	Stats(ctx context.Context, productID string) (*model.ReviewStats, error)

	// CreateReport inserts a report. Returns model.ErrDuplicateReport when
	// the reporter already reported the review.
	CreateReport(ctx context.Context, report *model.ReviewReport) error

	// ListUnprocessedReports retrieves open reports, oldest first.
	ListUnprocessedReports(ctx context.Context, limit, offset int) ([]model.ReviewReport, error)

	// MarkReportProcessed closes a report.
	MarkReportProcessed(ctx context.Context, id uuid.UUID) error
}

// OperationLogRepository defines the interface for the audit trail.
type OperationLogRepository interface {
	Append(ctx context.Context, entry *model.OperationLog) error
	List(ctx context.Context, limit, offset int) ([]model.OperationLog, error)
}

// DeviceRepository defines the interface for the push-token registry.
type DeviceRepository interface {
	// Upsert registers a token, reassigning it when it already exists.
	Upsert(ctx context.Context, token *model.DeviceToken) error
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
