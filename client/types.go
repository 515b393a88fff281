// Package client is the storefront SDK: a typed gateway over the REST API
// plus session and wishlist state managers suitable for embedding in a Go
// frontend process. The remote store stays the source of truth; the
// managers hold rebuildable in-memory views of it.
package client

import "time"

// User is the application profile row, joined to the auth account by ID.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a read-only catalog item.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           int64     `json:"price"`
	OriginalPrice   *int64    `json:"original_price,omitempty"`
	Currency        string    `json:"currency"`
	ImageURL        string    `json:"image_url"`
	DiscountPercent int       `json:"discount_percent"`
	IsNew           bool      `json:"is_new"`
	StockQuantity   int       `json:"stock_quantity"`
	CategoryID      *string   `json:"category_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Category groups products.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// WishlistItem joins a user and a product with quantity and notes. Reads
// carry the product (and its category) embedded so no second fetch is
// needed to render.
type WishlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Product   *Product  `json:"product,omitempty"`
	Category  *Category `json:"category,omitempty"`
}

// TokenPair is the JWT access/refresh pair issued by the auth endpoints.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// UserUpdate carries partial profile changes. Nil fields are untouched.
type UserUpdate struct {
	Name      *string `json:"name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// WishlistItemUpdate carries partial wishlist item changes.
type WishlistItemUpdate struct {
	Quantity *int    `json:"quantity,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}
