package service

import (
	"context"
	"log/slog"

	"github.com/oakmere/storefront/internal/cache"
	"github.com/oakmere/storefront/internal/domain"
	"github.com/oakmere/storefront/internal/repository"
)

// CatalogService serves product and category reads with a Redis
// read-through cache in front of Postgres. Cache failures degrade to the
// database and are logged, never surfaced to callers.
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cache        *cache.CatalogCache
	logger       *slog.Logger
}

// NewCatalogService creates the catalog service. The cache may be nil, in
// which case every read goes to the database.
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	catalogCache *cache.CatalogCache,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        catalogCache,
		logger:       logger,
	}
}

// ListProducts returns all products, newest first.
func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProducts(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("error", err.Error()),
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProducts(ctx, products); err != nil {
			s.logger.WarnContext(ctx, "product cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return products, nil
}

// GetProduct returns a single product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCategories(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "category cache read failed",
				slog.String("error", err.Error()),
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCategories(ctx, categories); err != nil {
			s.logger.WarnContext(ctx, "category cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return categories, nil
}
