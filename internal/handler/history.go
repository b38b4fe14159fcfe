package handler

import (
	"net/http"

	"github.com/osse101/ReelSpin_Go/internal/history"
)

// HistoryHandler serves the recent plays list
type HistoryHandler struct {
	service history.Service
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service history.Service) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// HandleRecent returns the most recent plays, newest first
func (h *HistoryHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit, ok := GetIntQueryParam(r, w, "limit", history.DefaultLimit)
	if !ok {
		return
	}

	plays, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, "Get history", err)
		return
	}
	respondJSON(w, http.StatusOK, DataResponse{Data: plays})
}
