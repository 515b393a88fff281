package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oakmere/storefront/internal/domain"
)

const (
	productsKey   = "catalog:products"
	categoriesKey = "catalog:categories"
)

// CatalogCache caches catalog list responses in Redis. It is a read-through
// helper: callers treat a miss (nil, nil) and an error the same way and fall
// back to the database.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a Redis-backed catalog cache.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

// GetProducts returns the cached product list, or (nil, nil) on a miss.
func (c *CatalogCache) GetProducts(ctx context.Context) ([]*domain.Product, error) {
	data, err := c.client.Get(ctx, productsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get products: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal cached products: %w", err)
	}

	return products, nil
}

// SetProducts stores the product list with the configured TTL.
func (c *CatalogCache) SetProducts(ctx context.Context, products []*domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}

	if err := c.client.Set(ctx, productsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set products: %w", err)
	}

	return nil
}

// GetCategories returns the cached category list, or (nil, nil) on a miss.
func (c *CatalogCache) GetCategories(ctx context.Context) ([]*domain.Category, error) {
	data, err := c.client.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get categories: %w", err)
	}

	var categories []*domain.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("unmarshal cached categories: %w", err)
	}

	return categories, nil
}

// SetCategories stores the category list with the configured TTL.
func (c *CatalogCache) SetCategories(ctx context.Context, categories []*domain.Category) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}

	if err := c.client.Set(ctx, categoriesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set categories: %w", err)
	}

	return nil
}
