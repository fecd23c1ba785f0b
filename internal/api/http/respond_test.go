package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"church-inventory-backend/internal/domain"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrInvalidReference, http.StatusUnprocessableEntity},
		{domain.ErrInvalidDelta, http.StatusBadRequest},
		{domain.ErrInvalidTransfer, http.StatusBadRequest},
		{domain.ErrInvalidDueDate, http.StatusBadRequest},
		{domain.ErrInsufficientStock, http.StatusConflict},
		{domain.ErrAlreadyReturned, http.StatusConflict},
		{domain.ErrConcurrencyConflict, http.StatusConflict},
		{domain.ErrPersistenceTimeout, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", domain.ErrItemDeactivated), http.StatusConflict},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
	}
}

func TestWriteErrorMasksInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused to 10.0.0.5"))

	var resp errorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "internal server error", resp.Error)
}

func TestWriteErrorIncludesShortfall(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &domain.InsufficientStockError{ItemID: 1, Requested: 8, Available: 5})

	assert.Equal(t, http.StatusConflict, rec.Code)
	var resp errorResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int32(8), resp.Requested)
	assert.Equal(t, int32(5), resp.Available)
}
