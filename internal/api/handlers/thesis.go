package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Reathyze20/akcion/internal/brain"
	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// ThesisHandler handles thesis API endpoints
// ⭐ SSOT: 투자 논지 API 핸들러는 이 구조체에서만
type ThesisHandler struct {
	service *brain.Service
	logger  *logger.Logger
}

// NewThesisHandler creates a new thesis handler
func NewThesisHandler(service *brain.Service, log *logger.Logger) *ThesisHandler {
	return &ThesisHandler{
		service: service,
		logger:  log,
	}
}

// Create registers a new thesis
// POST /api/theses
func (h *ThesisHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var thesis contracts.Thesis
	if err := json.NewDecoder(r.Body).Decode(&thesis); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.CreateThesis(ctx, &thesis); err != nil {
		h.logger.WithError(err).WithField("ticker", thesis.Ticker).Error("Failed to create thesis")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, thesis)
}

// Get returns the latest thesis version for a ticker
// GET /api/theses/{ticker}
func (h *ThesisHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	thesis, err := h.service.GetThesis(ctx, ticker)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, thesis)
}

// Merge feeds new information into the synthesis pipeline
// POST /api/theses/{ticker}/merge
func (h *ThesisHandler) Merge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	var req brain.MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Ticker = ticker
	if req.Source == "" {
		req.Source = "api"
	}

	result, err := h.service.Merge(ctx, req)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Merge failed")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ScoreHistory returns the conviction trail for a ticker
// GET /api/theses/{ticker}/history?limit=50
func (h *ThesisHandler) ScoreHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]
	limit := parseLimit(r, 50)

	entries, err := h.service.ScoreHistory(ctx, ticker, limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  ticker,
		"history": entries,
	})
}

// Narrative returns the narrative log for a ticker
// GET /api/theses/{ticker}/narrative?limit=50
func (h *ThesisHandler) Narrative(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]
	limit := parseLimit(r, 50)

	entries, err := h.service.Narrative(ctx, ticker, limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":    ticker,
		"narrative": entries,
	})
}

func parseLimit(r *http.Request, fallback int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
