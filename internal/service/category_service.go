package service

import (
	"context"
	"database/sql"
	"strings"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/repository"

	"go.uber.org/zap"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	Update(ctx context.Context, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

type categoryService struct {
	tx           repository.Transactor
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(
	tx repository.Transactor,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	logger *zap.Logger,
) CategoryService {
	return &categoryService{
		tx:           tx,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		logger:       logger,
	}
}

// Create adds a category after trimming and uniqueness checks
func (s *categoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name, err := s.validateName(ctx, 0, name)
	if err != nil {
		return nil, err
	}

	category := &domain.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created",
		zap.Int64("category_id", category.ID),
		zap.String("name", category.Name),
	)
	return category, nil
}

// Update renames a category. Its own current name does not count as a duplicate.
func (s *categoryService) Update(ctx context.Context, id int64, name string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err = s.validateName(ctx, id, name)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category updated",
		zap.Int64("category_id", category.ID),
		zap.String("name", category.Name),
	)
	return category, nil
}

// Delete removes the category's products and then the category, atomically.
// It is refused while any of those products has recorded sales.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	var removed int64

	err := s.tx.InTx(ctx, 0, func(tx *sql.Tx) error {
		categories := s.categoryRepo.WithTx(tx)
		if _, err := categories.FindByID(ctx, id); err != nil {
			return err
		}

		sold, err := s.saleRepo.WithTx(tx).CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if sold > 0 {
			return domain.NewConflictError("category_id", "category has products with recorded sales")
		}

		removed, err = s.productRepo.WithTx(tx).DeleteByCategory(ctx, id)
		if err != nil {
			return err
		}

		return categories.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Debug("category delete rejected", zap.Int64("category_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("category deleted",
		zap.Int64("category_id", id),
		zap.Int64("products_removed", removed),
	)
	return nil
}

// Get retrieves a category by ID
func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// List returns all categories ordered by name
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// validateName trims name and checks it is non-blank and not used by a
// category other than selfID.
func (s *categoryService) validateName(ctx context.Context, selfID int64, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("name", "must not be blank")
	}

	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.ID != selfID {
		return "", domain.NewConflictError("name", "a category with this name already exists")
	}

	return name, nil
}
