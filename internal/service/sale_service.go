package service

import (
	"context"
	"database/sql"
	"time"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxSaleTotal is the first value that no longer fits NUMERIC(12,2)
var maxSaleTotal = decimal.New(1, 10)

// SaleService records sales and lists the sales history
type SaleService interface {
	RecordSale(ctx context.Context, productID int64, quantity int) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]*domain.SaleListing, error)
}

type saleService struct {
	tx          repository.Transactor
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	lockTimeout time.Duration
	logger      *zap.Logger
}

// NewSaleService creates a new instance of SaleService. lockTimeout bounds
// how long a sale waits for the product row lock; zero waits indefinitely.
func NewSaleService(
	tx repository.Transactor,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	lockTimeout time.Duration,
	logger *zap.Logger,
) SaleService {
	return &saleService{
		tx:          tx,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		lockTimeout: lockTimeout,
		logger:      logger,
	}
}

// RecordSale creates a sale and decrements the product's stock in one
// transaction. The product row is locked and its stock re-checked before
// anything is written, so concurrent sales of one product are serialized and
// can never overdraw it.
func (s *saleService) RecordSale(ctx context.Context, productID int64, quantity int) (*domain.Sale, error) {
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "must be a positive integer")
	}

	// Fast fail for the user; the locked re-check below is authoritative.
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock < quantity {
		s.logger.Debug("sale rejected by pre-check",
			zap.Int64("product_id", productID),
			zap.Int("stock", product.Stock),
			zap.Int("quantity", quantity),
		)
		return nil, insufficientStock(product, quantity)
	}

	var sale *domain.Sale
	err = s.tx.InTx(ctx, s.lockTimeout, func(tx *sql.Tx) error {
		products := s.productRepo.WithTx(tx)

		locked, err := products.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if locked.Stock < quantity {
			return insufficientStock(locked, quantity)
		}

		sale = domain.NewSale(locked, quantity, time.Now().UTC())
		if sale.TotalPrice.GreaterThanOrEqual(maxSaleTotal) {
			return domain.NewValidationError("quantity", "total price is too large")
		}

		if err := s.saleRepo.WithTx(tx).Create(ctx, sale); err != nil {
			return err
		}

		return products.UpdateStock(ctx, productID, locked.Stock-quantity)
	})
	if err != nil {
		if repository.IsLockTimeout(err) {
			s.logger.Warn("sale lock timeout", zap.Int64("product_id", productID), zap.Duration("timeout", s.lockTimeout))
		} else {
			s.logger.Debug("sale rolled back", zap.Int64("product_id", productID), zap.Error(err))
		}
		return nil, domain.AsPersistence("record sale", err)
	}

	s.logger.Info("sale recorded",
		zap.Int64("sale_id", sale.ID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
		zap.String("total_price", sale.TotalPrice.StringFixed(2)),
	)
	return sale, nil
}

// ListSales returns every sale with its product name, newest first
func (s *saleService) ListSales(ctx context.Context) ([]*domain.SaleListing, error) {
	return s.saleRepo.List(ctx)
}

func insufficientStock(product *domain.Product, requested int) *domain.InsufficientStockError {
	return &domain.InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Available:   product.Stock,
		Requested:   requested,
	}
}
