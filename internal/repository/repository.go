package repository

import (
	"context"
	"time"

	"github.com/oakmere/storefront/internal/domain"
)

// AccountRepository defines persistence for auth subsystem accounts.
type AccountRepository interface {
	// Create inserts a new account.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by email address.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// UserRepository defines persistence for user profile rows.
type UserRepository interface {
	// Create inserts a new profile row.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a profile by account identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// Update modifies an existing profile.
	Update(ctx context.Context, user *domain.User) error
}

// RefreshTokenRepository defines persistence for refresh token hashes.
type RefreshTokenRepository interface {
	// Create stores a new refresh token hash.
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// GetByHash retrieves a refresh token record by its hash.
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke revokes a specific refresh token by its hash.
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeByUserID revokes all refresh tokens for the given user.
	RevokeByUserID(ctx context.Context, userID string) error
}

// ProductRepository defines read access to the catalog.
type ProductRepository interface {
	// List returns products newest-first with their category joined.
	List(ctx context.Context) ([]*domain.Product, error)

	// GetByID retrieves a product by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// CategoryRepository defines read access to categories.
type CategoryRepository interface {
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)
}

// WishlistRepository defines persistence for wishlist items.
type WishlistRepository interface {
	// Upsert inserts an item or, when the user already has the product,
	// replaces its quantity and notes. Returns the stored item.
	Upsert(ctx context.Context, item *domain.WishlistItem) (*domain.WishlistItem, error)

	// UpdateByID modifies quantity and notes of an item owned by userID.
	UpdateByID(ctx context.Context, userID, itemID string, quantity int, notes *string) (*domain.WishlistItem, error)

	// RemoveByID deletes an item owned by userID and returns the product
	// ID of the removed row.
	RemoveByID(ctx context.Context, userID, itemID string) (string, error)

	// ListByUserID returns the user's items newest-first with product
	// and category joined.
	ListByUserID(ctx context.Context, userID string) ([]*domain.WishlistItem, error)
}
