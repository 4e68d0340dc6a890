package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Reathyze20/akcion/internal/brain"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// VerdictHandler handles verdict API endpoints
// ⭐ SSOT: 판정 API 핸들러는 이 구조체에서만
type VerdictHandler struct {
	service *brain.Service
	logger  *logger.Logger
}

// NewVerdictHandler creates a new verdict handler
func NewVerdictHandler(service *brain.Service, log *logger.Logger) *VerdictHandler {
	return &VerdictHandler{
		service: service,
		logger:  log,
	}
}

// Evaluate runs a fresh gatekeeper evaluation for a ticker
// POST /api/verdicts/{ticker}/evaluate
func (h *VerdictHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	var req brain.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Ticker = ticker

	verdict, err := h.service.Evaluate(ctx, req)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Error("Evaluation failed")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, verdict)
}

// Latest returns the most recent persisted verdict for a ticker
// GET /api/verdicts/{ticker}
func (h *VerdictHandler) Latest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ticker := mux.Vars(r)["ticker"]

	verdict, err := h.service.LatestVerdict(ctx, ticker)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, verdict)
}
