package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oakmere/storefront/internal/domain"
	apperrors "github.com/oakmere/storefront/pkg/errors"
)

// WishlistRepository implements repository.WishlistRepository using
// PostgreSQL. A UNIQUE(user_id, product_id) constraint keeps at most one
// row per user and product; Upsert folds duplicate adds into an update.
type WishlistRepository struct {
	db DB
}

// NewWishlistRepository creates a PostgreSQL-backed wishlist repository.
func NewWishlistRepository(db DB) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Upsert inserts an item or replaces quantity and notes when the user
// already has the product. The stored row is returned.
func (r *WishlistRepository) Upsert(ctx context.Context, item *domain.WishlistItem) (*domain.WishlistItem, error) {
	query := `
		INSERT INTO wishlist_items (id, user_id, product_id, quantity, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, notes = EXCLUDED.notes
		RETURNING id, user_id, product_id, quantity, notes, created_at`

	var stored domain.WishlistItem
	err := r.db.QueryRow(ctx, query,
		uuid.New().String(),
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.Notes,
		time.Now().UTC(),
	).Scan(
		&stored.ID,
		&stored.UserID,
		&stored.ProductID,
		&stored.Quantity,
		&stored.Notes,
		&stored.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert wishlist item: %w", err)
	}

	return &stored, nil
}

// UpdateByID modifies quantity and notes of an item owned by userID.
func (r *WishlistRepository) UpdateByID(ctx context.Context, userID, itemID string, quantity int, notes *string) (*domain.WishlistItem, error) {
	query := `
		UPDATE wishlist_items
		SET quantity = $1, notes = $2
		WHERE id = $3 AND user_id = $4
		RETURNING id, user_id, product_id, quantity, notes, created_at`

	var stored domain.WishlistItem
	err := r.db.QueryRow(ctx, query, quantity, notes, itemID, userID).Scan(
		&stored.ID,
		&stored.UserID,
		&stored.ProductID,
		&stored.Quantity,
		&stored.Notes,
		&stored.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("wishlist item", itemID)
		}
		return nil, fmt.Errorf("update wishlist item: %w", err)
	}

	return &stored, nil
}

// RemoveByID deletes an item owned by userID and returns its product ID.
func (r *WishlistRepository) RemoveByID(ctx context.Context, userID, itemID string) (string, error) {
	query := `DELETE FROM wishlist_items WHERE id = $1 AND user_id = $2 RETURNING product_id`

	var productID string
	err := r.db.QueryRow(ctx, query, itemID, userID).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("wishlist item", itemID)
		}
		return "", fmt.Errorf("remove wishlist item: %w", err)
	}

	return productID, nil
}

// ListByUserID returns the user's items newest-first with product and
// category joined.
func (r *WishlistRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.WishlistItem, error) {
	query := `
		SELECT
			w.id, w.user_id, w.product_id, w.quantity, w.notes, w.created_at,
			p.id, p.name, p.description, p.price, p.original_price, p.currency,
			p.image_url, p.discount_percent, p.is_new, p.stock_quantity,
			p.category_id, p.created_at, p.updated_at,
			c.id, c.name, c.slug
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	items := []*domain.WishlistItem{}
	for rows.Next() {
		var (
			item domain.WishlistItem
			p    domain.Product
			cID  *string
			cN   *string
			cS   *string
		)
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ProductID,
			&item.Quantity,
			&item.Notes,
			&item.CreatedAt,
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.OriginalPrice,
			&p.Currency,
			&p.ImageURL,
			&p.DiscountPercent,
			&p.IsNew,
			&p.StockQuantity,
			&p.CategoryID,
			&p.CreatedAt,
			&p.UpdatedAt,
			&cID,
			&cN,
			&cS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist row: %w", err)
		}

		item.Product = &p
		if cID != nil {
			item.Category = &domain.Category{ID: *cID, Name: *cN, Slug: *cS}
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist rows: %w", err)
	}

	return items, nil
}
