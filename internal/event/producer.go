package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oakmere/storefront/internal/domain"
	pkgkafka "github.com/oakmere/storefront/pkg/kafka"
)

// Kafka topics for storefront domain events.
const (
	TopicUserRegistered      = "storefront.user.registered"
	TopicUserUpdated         = "storefront.user.updated"
	TopicWishlistItemAdded   = "storefront.wishlist.item_added"
	TopicWishlistItemRemoved = "storefront.wishlist.item_removed"
)

// Aggregate type constants.
const (
	AggregateTypeUser     = "user"
	AggregateTypeWishlist = "wishlist"
)

// Source identifier for events originating from this service.
const Source = "storefront"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserUpdatedData is the payload for a user.updated event.
type UserUpdatedData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// WishlistItemData is the payload for wishlist item events.
type WishlistItemData struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity,omitempty"`
}

// Publisher is the event publishing interface the services depend on.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, user *domain.User) error
	PublishUserUpdated(ctx context.Context, user *domain.User) error
	PublishWishlistItemAdded(ctx context.Context, item *domain.WishlistItem) error
	PublishWishlistItemRemoved(ctx context.Context, userID, productID string) error
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	return nil
}

// PublishUserUpdated publishes a user.updated event.
func (p *Producer) PublishUserUpdated(ctx context.Context, user *domain.User) error {
	data := UserUpdatedData{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
	if user.Phone != nil {
		data.Phone = *user.Phone
	}

	event, err := pkgkafka.NewEvent(TopicUserUpdated, user.ID, AggregateTypeUser, Source, data)
	if err != nil {
		return fmt.Errorf("create user.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserUpdated, event); err != nil {
		return fmt.Errorf("publish user.updated event: %w", err)
	}

	return nil
}

// PublishWishlistItemAdded publishes a wishlist.item_added event.
func (p *Producer) PublishWishlistItemAdded(ctx context.Context, item *domain.WishlistItem) error {
	data := WishlistItemData{
		UserID:    item.UserID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}

	event, err := pkgkafka.NewEvent(TopicWishlistItemAdded, item.UserID, AggregateTypeWishlist, Source, data)
	if err != nil {
		return fmt.Errorf("create wishlist.item_added event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistItemAdded, event); err != nil {
		return fmt.Errorf("publish wishlist.item_added event: %w", err)
	}

	return nil
}

// PublishWishlistItemRemoved publishes a wishlist.item_removed event.
func (p *Producer) PublishWishlistItemRemoved(ctx context.Context, userID, productID string) error {
	data := WishlistItemData{
		UserID:    userID,
		ProductID: productID,
	}

	event, err := pkgkafka.NewEvent(TopicWishlistItemRemoved, userID, AggregateTypeWishlist, Source, data)
	if err != nil {
		return fmt.Errorf("create wishlist.item_removed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistItemRemoved, event); err != nil {
		return fmt.Errorf("publish wishlist.item_removed event: %w", err)
	}

	return nil
}
