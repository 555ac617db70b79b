package transport

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// respondWithServiceError maps the domain error taxonomy onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		validation   *domain.ValidationError
		notFound     *domain.NotFoundError
		insufficient *domain.InsufficientStockError
	)

	switch {
	case errors.As(err, &validation):
		status, code := http.StatusBadRequest, middleware.CodeValidation
		if validation.Conflict {
			status, code = http.StatusConflict, middleware.CodeDuplicate
		}
		var details map[string]any
		if validation.Field != "" {
			details = map[string]any{"field": validation.Field}
		}
		middleware.RespondWithErrorDetails(w, status, code, validation.Message, details)

	case errors.As(err, &notFound):
		middleware.RespondWithError(w, http.StatusNotFound, middleware.CodeNotFound, notFound.Error())

	case errors.As(err, &insufficient):
		middleware.RespondWithErrorDetails(w, http.StatusConflict, middleware.CodeInsufficientStock, insufficient.Error(), map[string]any{
			"product_id": insufficient.ProductID,
			"available":  insufficient.Available,
			"requested":  insufficient.Requested,
		})

	default:
		logger.Error("request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.CodeInternal, "internal server error")
	}
}

// parseID reads the {id} URL parameter
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func respondWithInvalidID(w http.ResponseWriter) {
	middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeBadRequest, "id must be a positive integer")
}
