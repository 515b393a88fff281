package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmere/storefront/internal/domain"
)

func setupCatalogCache(t *testing.T) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCatalogCache(client, time.Minute), mr
}

func TestCatalogCache_ProductsRoundTrip(t *testing.T) {
	cache, _ := setupCatalogCache(t)
	ctx := context.Background()

	products := []*domain.Product{
		{ID: "p-1", Name: "Syltherine Sofa", Price: 2500000, Currency: "IDR"},
		{ID: "p-2", Name: "Leviosa Chair", Price: 1500000, Currency: "IDR", IsNew: true},
	}

	require.NoError(t, cache.SetProducts(ctx, products))

	got, err := cache.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Syltherine Sofa", got[0].Name)
	assert.True(t, got[1].IsNew)
}

func TestCatalogCache_GetProducts_Miss(t *testing.T) {
	cache, _ := setupCatalogCache(t)

	got, err := cache.GetProducts(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalogCache_ProductsExpire(t *testing.T) {
	cache, mr := setupCatalogCache(t)
	ctx := context.Background()

	require.NoError(t, cache.SetProducts(ctx, []*domain.Product{{ID: "p-1"}}))

	mr.FastForward(2 * time.Minute)

	got, err := cache.GetProducts(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCatalogCache_CategoriesRoundTrip(t *testing.T) {
	cache, _ := setupCatalogCache(t)
	ctx := context.Background()

	categories := []*domain.Category{
		{ID: "cat-1", Name: "Chairs", Slug: "chairs"},
	}

	require.NoError(t, cache.SetCategories(ctx, categories))

	got, err := cache.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "chairs", got[0].Slug)
}

func TestCatalogCache_GetCategories_Miss(t *testing.T) {
	cache, _ := setupCatalogCache(t)

	got, err := cache.GetCategories(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}
