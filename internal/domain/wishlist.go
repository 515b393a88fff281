package domain

import (
	"time"
)

// WishlistItem is a product saved in a user's wishlist. A user holds at
// most one row per product; quantity expresses multiples.
type WishlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Product and its category are joined on reads so the client can
	// render the wishlist without extra round trips.
	Product  *Product  `json:"product,omitempty"`
	Category *Category `json:"category,omitempty"`
}
