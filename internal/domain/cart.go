package domain

import "github.com/shopspring/decimal"

// CartItem is a transient product snapshot held in client storage and sent
// with checkout requests. Quantity mirrors the product's stock at the time
// the item was added; it is a hint, never a purchase count. Each cart entry
// is exactly one purchased unit, and the same product may appear more than
// once.
type CartItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity,omitempty"`
}

// Cart is an ordered sequence of cart items. Duplicates are allowed.
type Cart []CartItem
