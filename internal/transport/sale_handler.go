package transport

import (
	"context"
	"net/http"

	"restaurant-admin/internal/cache"
	"restaurant-admin/internal/middleware"
	"restaurant-admin/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleHandler handles HTTP requests for sales
type SaleHandler struct {
	saleService service.SaleService
	guard       cache.IdempotencyGuard
	logger      *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService service.SaleService, guard cache.IdempotencyGuard, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		guard:       guard,
		logger:      logger,
	}
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
	})
}

// List returns all sales newest first
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.saleService.ListSales(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	response := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		item := newSaleResponse(&s.Sale)
		item.ProductName = s.ProductName
		response = append(response, item)
	}
	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// Create records a sale. An optional Idempotency-Key header makes retries of
// the same submission safe: a key seen before is answered with 409.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("sale validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	key := r.Header.Get(middleware.IdempotencyKeyHeader)
	if key != "" {
		parsed, err := uuid.Parse(key)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeBadRequest,
				middleware.IdempotencyKeyHeader+" must be a UUID")
			return
		}
		key = parsed.String()

		claimed, err := h.guard.Claim(r.Context(), key)
		switch {
		case err != nil:
			h.logger.Warn("idempotency guard unavailable", zap.Error(err))
			key = ""
		case !claimed:
			h.logger.Info("duplicate sale submission", zap.String("idempotency_key", key))
			middleware.RespondWithError(w, http.StatusConflict, middleware.CodeDuplicateRequest,
				"this sale was already submitted")
			return
		}
	}

	sale, err := h.saleService.RecordSale(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		if key != "" {
			h.release(key)
		}
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, newSaleResponse(sale))
}

// release forgets a claimed key so the user can retry a failed submission.
// It runs on a fresh context so a cancelled request still releases.
func (h *SaleHandler) release(key string) {
	if err := h.guard.Release(context.Background(), key); err != nil {
		h.logger.Warn("failed to release idempotency key", zap.String("idempotency_key", key), zap.Error(err))
	}
}
