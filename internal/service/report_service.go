package service

import (
	"context"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportService exposes the read-only sales and stock reports
type ReportService interface {
	SalesByProduct(ctx context.Context) ([]*domain.ProductSales, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	StockStatus(ctx context.Context) ([]*domain.StockStatus, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new instance of ReportService
func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) SalesByProduct(ctx context.Context) ([]*domain.ProductSales, error) {
	return s.reportRepo.SalesByProduct(ctx)
}

func (s *reportService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	total, err := s.reportRepo.TotalRevenue(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

func (s *reportService) StockStatus(ctx context.Context) ([]*domain.StockStatus, error) {
	return s.reportRepo.StockStatus(ctx)
}
