package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strconv"
	"strings"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxPrice is the first value that no longer fits NUMERIC(10,2)
var maxPrice = decimal.New(1, 8)

const (
	maxPriceIntegerDigits = 8
	// maxPriceScale bounds how many decimal places are accepted before rounding
	maxPriceScale = 20
)

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.ProductListing, error)
}

type productService struct {
	tx           repository.Transactor
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	saleRepo     repository.SaleRepository
	logger       *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	tx repository.Transactor,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	saleRepo repository.SaleRepository,
	logger *zap.Logger,
) ProductService {
	return &productService{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		saleRepo:     saleRepo,
		logger:       logger,
	}
}

// Create validates the raw input and stores a new product
func (s *productService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	product, err := s.buildProduct(ctx, s.productRepo, s.categoryRepo, 0, input)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID),
		zap.String("name", product.Name),
	)
	return product, nil
}

// Update re-validates every field against the new values and overwrites the
// product. It holds the product row lock, so it never interleaves with a sale.
// When input.ExpectedStock is set and the stored stock has moved since the
// editor loaded it, the update is refused as a conflict.
func (s *productService) Update(ctx context.Context, id int64, input domain.ProductInput) (*domain.Product, error) {
	var product *domain.Product

	err := s.tx.InTx(ctx, 0, func(tx *sql.Tx) error {
		products := s.productRepo.WithTx(tx)

		current, err := products.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if input.ExpectedStock != nil && *input.ExpectedStock != current.Stock {
			return domain.NewConflictError("stock", "stock changed since the product was loaded")
		}

		product, err = s.buildProduct(ctx, products, s.categoryRepo.WithTx(tx), id, input)
		if err != nil {
			return err
		}
		product.ID = id

		return products.Update(ctx, product)
	})
	if err != nil {
		s.logger.Debug("product update rejected", zap.Int64("product_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("product updated",
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID),
		zap.Int("stock", product.Stock),
	)
	return product, nil
}

// Delete removes a product that has no recorded sales
func (s *productService) Delete(ctx context.Context, id int64) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}

	sold, err := s.saleRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if sold > 0 {
		s.logger.Debug("product delete rejected", zap.Int64("product_id", id), zap.Int("sales", sold))
		return domain.NewConflictError("product_id", "product is referenced by recorded sales")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

// Get retrieves a product by ID
func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// List returns all products with their category names, ordered by name
func (s *productService) List(ctx context.Context) ([]*domain.ProductListing, error) {
	return s.productRepo.List(ctx)
}

// buildProduct parses and validates input. selfID is excluded from the
// name uniqueness check.
func (s *productService) buildProduct(
	ctx context.Context,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	selfID int64,
	input domain.ProductInput,
) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "must not be blank")
	}

	price, err := ParsePrice(input.Price)
	if err != nil {
		return nil, err
	}

	stock, err := ParseStock(input.Stock)
	if err != nil {
		return nil, err
	}

	if _, err := categories.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("category_id", "category does not exist")
		}
		return nil, err
	}

	existing, err := products.FindByNameInCategory(ctx, input.CategoryID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != selfID {
		return nil, domain.NewConflictError("name", "a product with this name already exists in this category")
	}

	return &domain.Product{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Price:       price,
		Stock:       stock,
		CategoryID:  input.CategoryID,
	}, nil
}

// ParsePrice parses a non-negative decimal price, rounded to cents
func ParsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero, domain.NewValidationError("price", "must be a non-negative number")
	}

	// Exponent notation can encode huge scales in a few bytes; rescaling
	// those in Round would never finish.
	if price.Exponent() < -maxPriceScale {
		return decimal.Zero, domain.NewValidationError("price", "has too many decimal places")
	}
	if price.NumDigits()+int(price.Exponent()) > maxPriceIntegerDigits {
		return decimal.Zero, domain.NewValidationError("price", "is too large")
	}

	price = price.Round(2)
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, domain.NewValidationError("price", "is too large")
	}
	return price, nil
}

// ParseStock parses a non-negative integer stock level. Blank means 0.
func ParseStock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	stock, err := strconv.Atoi(raw)
	if err != nil || stock < 0 || stock > math.MaxInt32 {
		return 0, domain.NewValidationError("stock", "must be a non-negative integer")
	}
	return stock, nil
}
