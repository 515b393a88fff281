package domain

import (
	"time"
)

// Product is a catalog item. Prices are stored in minor currency units.
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

// Category groups products for browsing.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
