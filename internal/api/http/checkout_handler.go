package http

import (
	"encoding/json"
	"net/http"
	"time"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/service"
)

type CheckoutHandler struct {
	checkouts service.CheckoutService
}

func NewCheckoutHandler(checkouts service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts}
}

type checkoutRequest struct {
	ItemID     int32     `json:"item_id"`
	BorrowerID int32     `json:"borrower_id"`
	Quantity   int32     `json:"quantity"`
	DueOn      time.Time `json:"due_on"`
	Purpose    string    `json:"purpose"`
}

func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	borrowerID := req.BorrowerID
	if borrowerID == 0 {
		borrowerID = ActorFrom(r.Context())
	}
	checkout, err := h.checkouts.Checkout(r.Context(), req.ItemID, borrowerID, req.Quantity, req.DueOn, req.Purpose)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, checkout)
}

type checkinRequest struct {
	ReturnedQuantity int32  `json:"returned_quantity"`
	Condition        string `json:"condition"`
}

func (h *CheckoutHandler) Checkin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req checkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	checkout, err := h.checkouts.Checkin(
		r.Context(), id, req.ReturnedQuantity, domain.ItemCondition(req.Condition), ActorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	checkout, err := h.checkouts.GetCheckout(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkout)
}

func (h *CheckoutHandler) ListByItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	page, pageSize := pagination(r)
	checkouts, total, err := h.checkouts.ListOutstandingByItem(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Data: checkouts, Total: total, Page: page})
}

func (h *CheckoutHandler) ListByBorrower(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	page, pageSize := pagination(r)
	checkouts, total, err := h.checkouts.ListOutstandingByBorrower(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Data: checkouts, Total: total, Page: page})
}

// ListOverdue evaluates lateness against the request time (or an explicit
// as_of query parameter); overdue is never a stored state.
func (h *CheckoutHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	asOf := time.Time{}
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid as_of timestamp"})
			return
		}
		asOf = parsed
	}
	page, pageSize := pagination(r)
	checkouts, total, err := h.checkouts.ListOverdue(r.Context(), asOf, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Data: checkouts, Total: total, Page: page})
}
