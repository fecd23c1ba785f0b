package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/service"
)

type ItemHandler struct {
	inventory service.InventoryService
	transfers service.TransferService
	lowStock  service.LowStockService
}

func NewItemHandler(inventory service.InventoryService, transfers service.TransferService, lowStock service.LowStockService) *ItemHandler {
	return &ItemHandler{inventory: inventory, transfers: transfers, lowStock: lowStock}
}

type itemRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CategoryID      *int32          `json:"category_id"`
	MinistryAreaID  int32           `json:"ministry_area_id"`
	Quantity        int32           `json:"quantity"`
	MinQuantity     int32           `json:"min_quantity"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	Condition       string          `json:"condition"`
	Location        string          `json:"location"`
	Barcode         string          `json:"barcode"`
	AcquisitionDate *time.Time      `json:"acquisition_date"`
}

type itemWithTransaction struct {
	Item        *domain.Item        `json:"item"`
	Transaction *domain.Transaction `json:"transaction"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	item := &domain.Item{
		Name:            req.Name,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		MinistryAreaID:  req.MinistryAreaID,
		Quantity:        req.Quantity,
		MinQuantity:     req.MinQuantity,
		UnitValue:       req.UnitValue,
		Condition:       domain.ItemCondition(req.Condition),
		Location:        req.Location,
		Barcode:         req.Barcode,
		AcquisitionDate: req.AcquisitionDate,
	}
	created, record, err := h.inventory.CreateItem(r.Context(), item, ActorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemWithTransaction{Item: created, Transaction: record})
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := h.inventory.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	ministryID := queryInt32(r, "ministry_id")
	page, pageSize := pagination(r)
	items, total, err := h.inventory.ListItems(r.Context(), ministryID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Data: items, Total: total, Page: page})
}

func (h *ItemHandler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	item := &domain.Item{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		MinQuantity:     req.MinQuantity,
		UnitValue:       req.UnitValue,
		Condition:       domain.ItemCondition(req.Condition),
		Location:        req.Location,
		Barcode:         req.Barcode,
		AcquisitionDate: req.AcquisitionDate,
	}
	updated, err := h.inventory.UpdateItemMetadata(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ItemHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.inventory.DeactivateItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type adjustRequest struct {
	Delta  int32  `json:"delta"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

func (h *ItemHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	item, record, err := h.inventory.AdjustQuantity(
		r.Context(), id, req.Delta, domain.TransactionType(req.Type), req.Reason, ActorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemWithTransaction{Item: item, Transaction: record})
}

func (h *ItemHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	page, pageSize := pagination(r)
	txs, total, err := h.inventory.ListTransactions(r.Context(), id, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Data: txs, Total: total, Page: page})
}

func (h *ItemHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	available, err := h.inventory.AvailableQuantity(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"item_id": id, "available_quantity": available})
}

type transferRequest struct {
	ItemID         int32  `json:"item_id"`
	FromMinistryID int32  `json:"from_ministry_id"`
	ToMinistryID   int32  `json:"to_ministry_id"`
	Quantity       int32  `json:"quantity"`
	Reason         string `json:"reason"`
}

type transferResponse struct {
	TransferOut *domain.Transaction `json:"transfer_out"`
	TransferIn  *domain.Transaction `json:"transfer_in"`
}

func (h *ItemHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	out, in, err := h.transfers.Transfer(
		r.Context(), req.ItemID, req.FromMinistryID, req.ToMinistryID, req.Quantity, req.Reason, ActorFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, transferResponse{TransferOut: out, TransferIn: in})
}

func (h *ItemHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	ministryID := queryInt32(r, "ministry_id")
	page, pageSize := pagination(r)
	items, total, err := h.lowStock.ListLowStock(r.Context(), ministryID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{Data: items, Total: total, Page: page})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int32, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + name})
		return 0, false
	}
	return int32(id), true
}

func queryInt32(r *http.Request, name string) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}

func pagination(r *http.Request) (int32, int32) {
	page := queryInt32(r, "page")
	if page < 1 {
		page = 1
	}
	pageSize := queryInt32(r, "page_size")
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}
