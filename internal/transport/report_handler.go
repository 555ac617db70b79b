package transport

import (
	"net/http"

	"restaurant-admin/internal/middleware"
	"restaurant-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler serves the read-only reports
type ReportHandler struct {
	reportService service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/sales-by-product", h.SalesByProduct)
		r.Get("/revenue", h.Revenue)
		r.Get("/stock", h.Stock)
	})
}

func (h *ReportHandler) SalesByProduct(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.SalesByProduct(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	response := make([]ProductSalesResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, ProductSalesResponse{
			ProductName:  row.ProductName,
			QuantitySold: row.QuantitySold,
			Revenue:      money(row.Revenue),
		})
	}
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

func (h *ReportHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	total, err := h.reportService.TotalRevenue(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, RevenueResponse{TotalRevenue: money(total)})
}

func (h *ReportHandler) Stock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reportService.StockStatus(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}
