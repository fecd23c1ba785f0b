package http

import (
	"encoding/json"
	"net/http"

	"church-inventory-backend/internal/domain"
	"church-inventory-backend/internal/service"
)

type MinistryHandler struct {
	ministries service.MinistryService
}

func NewMinistryHandler(ministries service.MinistryService) *MinistryHandler {
	return &MinistryHandler{ministries: ministries}
}

func (h *MinistryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var ministry domain.MinistryArea
	if err := json.NewDecoder(r.Body).Decode(&ministry); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	created, err := h.ministries.CreateMinistry(r.Context(), &ministry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *MinistryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ministry, err := h.ministries.GetMinistry(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ministry)
}

func (h *MinistryHandler) List(w http.ResponseWriter, r *http.Request) {
	ministries, err := h.ministries.ListMinistries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ministries)
}

func (h *MinistryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var ministry domain.MinistryArea
	if err := json.NewDecoder(r.Body).Decode(&ministry); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	ministry.ID = id
	updated, err := h.ministries.UpdateMinistry(r.Context(), &ministry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
