package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oakmere/storefront/internal/cache"
	"github.com/oakmere/storefront/internal/domain"
	apperrors "github.com/oakmere/storefront/pkg/errors"
)

func newCatalogCacheForTest(t *testing.T) (*cache.CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewCatalogCache(client, time.Minute), mr
}

func TestCatalogService_ListProducts_FillsCacheOnMiss(t *testing.T) {
	products := new(mockProductRepo)
	categories := new(mockCategoryRepo)
	catalogCache, _ := newCatalogCacheForTest(t)
	svc := NewCatalogService(products, categories, catalogCache, discardLogger())

	fromDB := []*domain.Product{
		{ID: "p-1", Name: "Syltherine Sofa", Price: 2500000, Currency: "IDR"},
	}

	// The repository must be hit exactly once; the second call is served
	// from the cache.
	products.On("List", mock.Anything).Return(fromDB, nil).Once()

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Syltherine Sofa", got[0].Name)

	products.AssertExpectations(t)
}

func TestCatalogService_ListProducts_CacheFailureDegradesToDB(t *testing.T) {
	products := new(mockProductRepo)
	categories := new(mockCategoryRepo)
	catalogCache, mr := newCatalogCacheForTest(t)
	svc := NewCatalogService(products, categories, catalogCache, discardLogger())

	mr.Close()

	fromDB := []*domain.Product{{ID: "p-1", Name: "Leviosa Chair"}}
	products.On("List", mock.Anything).Return(fromDB, nil)

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Leviosa Chair", got[0].Name)
}

func TestCatalogService_ListProducts_NilCache(t *testing.T) {
	products := new(mockProductRepo)
	categories := new(mockCategoryRepo)
	svc := NewCatalogService(products, categories, nil, discardLogger())

	products.On("List", mock.Anything).Return([]*domain.Product{{ID: "p-1"}}, nil)

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	products := new(mockProductRepo)
	categories := new(mockCategoryRepo)
	svc := NewCatalogService(products, categories, nil, discardLogger())

	products.On("GetByID", mock.Anything, "p-missing").
		Return(nil, apperrors.NotFound("product", "p-missing"))

	_, err := svc.GetProduct(context.Background(), "p-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCatalogService_ListCategories_FillsCacheOnMiss(t *testing.T) {
	products := new(mockProductRepo)
	categories := new(mockCategoryRepo)
	catalogCache, _ := newCatalogCacheForTest(t)
	svc := NewCatalogService(products, categories, catalogCache, discardLogger())

	fromDB := []*domain.Category{{ID: "cat-1", Name: "Sofas", Slug: "sofas"}}
	categories.On("List", mock.Anything).Return(fromDB, nil).Once()

	got, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sofas", got[0].Slug)

	categories.AssertExpectations(t)
}
