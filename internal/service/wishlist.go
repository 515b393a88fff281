package service

import (
	"context"
	"log/slog"

	"github.com/oakmere/storefront/internal/domain"
	"github.com/oakmere/storefront/internal/event"
	"github.com/oakmere/storefront/internal/repository"
	apperrors "github.com/oakmere/storefront/pkg/errors"
)

// WishlistService implements per-user wishlist operations. The database
// enforces one row per user and product, so adding an already-present
// product folds into an update of its quantity and notes.
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	publisher    event.Publisher
	logger       *slog.Logger
}

// NewWishlistService creates the wishlist service.
func NewWishlistService(
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
	publisher event.Publisher,
	logger *slog.Logger,
) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// AddItemInput holds the parameters for adding a wishlist item.
type AddItemInput struct {
	ProductID string
	Quantity  int
	Notes     *string
}

// UpdateItemInput holds the parameters for updating a wishlist item.
type UpdateItemInput struct {
	Quantity int
	Notes    *string
}

// List returns the user's wishlist newest-first with products joined.
func (s *WishlistService) List(ctx context.Context, userID string) ([]*domain.WishlistItem, error) {
	return s.wishlistRepo.ListByUserID(ctx, userID)
}

// Add puts a product on the user's wishlist. The product must exist; a
// duplicate add updates the existing row instead of creating a second one.
func (s *WishlistService) Add(ctx context.Context, userID string, input AddItemInput) (*domain.WishlistItem, error) {
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	item := &domain.WishlistItem{
		UserID:    userID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Notes:     input.Notes,
	}

	stored, err := s.wishlistRepo.Upsert(ctx, item)
	if err != nil {
		return nil, err
	}
	stored.Product = product

	if err := s.publisher.PublishWishlistItemAdded(ctx, stored); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.item_added event",
			slog.String("user_id", userID),
			slog.String("product_id", stored.ProductID),
			slog.String("error", err.Error()),
		)
	}

	return stored, nil
}

// Update changes quantity and notes of an item owned by the user.
func (s *WishlistService) Update(ctx context.Context, userID, itemID string, input UpdateItemInput) (*domain.WishlistItem, error) {
	if input.Quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	return s.wishlistRepo.UpdateByID(ctx, userID, itemID, input.Quantity, input.Notes)
}

// Remove deletes an item owned by the user.
func (s *WishlistService) Remove(ctx context.Context, userID, itemID string) error {
	productID, err := s.wishlistRepo.RemoveByID(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if err := s.publisher.PublishWishlistItemRemoved(ctx, userID, productID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.item_removed event",
			slog.String("user_id", userID),
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
