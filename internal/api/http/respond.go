package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/logger"
)

type errorResponse struct {
	Error     string `json:"error"`
	Requested int32  `json:"requested,omitempty"`
	Available int32  `json:"available,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. Stock
// shortfalls include the requested/available pair so clients can show an
// actionable message.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		resp.Requested = stockErr.Requested
		resp.Available = stockErr.Available
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidReference):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidDelta),
		errors.Is(err, domain.ErrInvalidTransactionType),
		errors.Is(err, domain.ErrInvalidTransfer),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidDueDate):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrAlreadyReturned),
		errors.Is(err, domain.ErrItemDeactivated),
		errors.Is(err, domain.ErrCheckoutsOutstanding),
		errors.Is(err, domain.ErrConcurrencyConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPersistenceTimeout):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		logger.Error("Unhandled error in HTTP handler", "error", err)
		resp.Error = "internal server error"
	}
	writeJSON(w, status, resp)
}

type pageResponse struct {
	Data  interface{} `json:"data"`
	Total int32       `json:"total"`
	Page  int32       `json:"page"`
}
