package model

import "time"

// Product represents a catalogue entry. Stock is nullable because stock
// tracking is an optional policy; a NULL stock never blocks a cart add.
type Product struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	Price         float64    `json:"price" db:"price"`
	DiscountPrice *float64   `json:"discountPrice,omitempty" db:"discount_price"`
	DiscountStart *time.Time `json:"discountStart,omitempty" db:"discount_start"`
	DiscountEnd   *time.Time `json:"discountEnd,omitempty" db:"discount_end"`
	ImageURL      string     `json:"imageUrl,omitempty" db:"image_url"`
	Stock         *int       `json:"stock,omitempty" db:"stock"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// EffectivePrice returns the discount price when the discount window is
// active at the given instant, and the list price otherwise.
func (p *Product) EffectivePrice(now time.Time) float64 {
	if p.DiscountPrice == nil {
		return p.Price
	}
	if p.DiscountStart != nil && now.Before(*p.DiscountStart) {
		return p.Price
	}
	if p.DiscountEnd != nil && now.After(*p.DiscountEnd) {
		return p.Price
	}
	return *p.DiscountPrice
}
