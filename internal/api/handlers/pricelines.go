package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Reathyze20/akcion/internal/brain"
	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// PriceLineHandler handles analyst price line API endpoints
// ⭐ SSOT: 가격 라인 API 핸들러는 이 구조체에서만
type PriceLineHandler struct {
	service *brain.Service
	logger  *logger.Logger
}

// NewPriceLineHandler creates a new price line handler
func NewPriceLineHandler(service *brain.Service, log *logger.Logger) *PriceLineHandler {
	return &PriceLineHandler{
		service: service,
		logger:  log,
	}
}

// Get returns the current line version for a ticker
// GET /api/lines/{ticker}
func (h *PriceLineHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	lines, err := h.service.GetPriceLines(ctx, ticker)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lines)
}

// Set validates and versions new analyst lines
// PUT /api/lines/{ticker}
func (h *PriceLineHandler) Set(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	var lines contracts.PriceLines
	if err := json.NewDecoder(r.Body).Decode(&lines); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lines.Ticker = ticker

	stored, err := h.service.SetPriceLines(ctx, &lines)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Warn("Price line update rejected")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stored)
}
