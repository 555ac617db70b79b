package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-admin/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Each error kind maps to one status, however deeply it is wrapped.
func TestProperty_ErrorKindsMapToStatus(t *testing.T) {
	kinds := []struct {
		err    error
		status int
	}{
		{domain.NewValidationError("price", "must be a non-negative number"), http.StatusBadRequest},
		{domain.NewConflictError("name", "already exists"), http.StatusConflict},
		{domain.NewNotFoundError("product", 9), http.StatusNotFound},
		{&domain.InsufficientStockError{ProductID: 1, Available: 1, Requested: 2}, http.StatusConflict},
		{domain.NewPersistenceError("commit transaction", errors.New("io")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}

	properties := gopter.NewProperties(nil)

	properties.Property("status depends only on the error kind", prop.ForAll(
		func(pick int, depth int) bool {
			kind := kinds[pick%len(kinds)]
			err := kind.err
			for i := 0; i < depth; i++ {
				err = fmt.Errorf("layer %d: %w", i, err)
			}

			w := httptest.NewRecorder()
			respondWithServiceError(w, zap.NewNop(), err)
			return w.Code == kind.status
		},
		gen.IntRange(0, 100),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
