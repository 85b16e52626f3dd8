package model

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Status is free-text progression; only StatusDelivered is
// interpreted (verified-purchase review gating).
const (
	StatusPending   = "pending"
	StatusDelivered = "delivered"
)

// Order is an immutable snapshot of a cart at checkout time. Only Status
// and PaymentVerified change after creation.
type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"-" db:"user_id"`
	OrderDate       time.Time `json:"orderDate" db:"order_date"`
	ShippingAddress string    `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod   string    `json:"paymentMethod" db:"payment_method"`
	TotalAmount     float64   `json:"totalAmount" db:"total_amount"`
	Status          string    `json:"status" db:"status"`
	PaymentVerified bool      `json:"paymentVerified" db:"payment_verified"`
}

// OrderItem snapshots product, quantity and the unit price at time of
// purchase, decoupled from later catalogue price changes.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
}

// OrderDetail is an order with its line items.
type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// CheckoutResult is returned by a successful checkout. ClientSecret is set
// only when an outbound card payment intent was created.
type CheckoutResult struct {
	Order        Order       `json:"order"`
	Items        []OrderItem `json:"items"`
	ClientSecret string      `json:"clientSecret,omitempty"`
}
