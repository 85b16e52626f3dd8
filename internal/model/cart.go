package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one (user, product, quantity) row. The database enforces at
// most one row per (user, product); repeated adds merge into the quantity.
type CartItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine is a cart item joined with the catalogue data needed to price
// it. UnitPrice is the product's current effective price, discount window
// already applied.
type CartLine struct {
	ItemID      uuid.UUID `json:"itemId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	Stock       *int      `json:"stock,omitempty"`
	IsActive    bool      `json:"-"`
}

// Subtotal returns quantity times the current unit price.
func (l *CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}
