package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Reathyze20/akcion/internal/brain"
	"github.com/Reathyze20/akcion/internal/contracts"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// RegimeHandler handles market regime API endpoints
// ⭐ SSOT: 시장 레짐 API 핸들러는 이 구조체에서만
type RegimeHandler struct {
	service *brain.Service
	logger  *logger.Logger
}

// NewRegimeHandler creates a new regime handler
func NewRegimeHandler(service *brain.Service, log *logger.Logger) *RegimeHandler {
	return &RegimeHandler{
		service: service,
		logger:  log,
	}
}

// Get returns the current market regime
// GET /api/regime
func (h *RegimeHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Regime(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"regime":        state.Regime,
		"defense_level": state.Regime.DefenseLevel(),
		"posture":       state.Regime.Posture(),
		"note":          state.Note,
		"changed_by":    state.ChangedBy,
		"changed_at":    state.ChangedAt,
	})
}

type setRegimeRequest struct {
	Regime    contracts.MarketRegime `json:"regime"`
	Note      string                 `json:"note"`
	ChangedBy string                 `json:"changed_by"`
}

// Set transitions the global market regime
// PUT /api/regime
func (h *RegimeHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setRegimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ChangedBy == "" {
		req.ChangedBy = "api"
	}

	if err := h.service.SetRegime(r.Context(), req.Regime, req.Note, req.ChangedBy); err != nil {
		h.logger.WithError(err).WithField("regime", req.Regime).Error("Regime transition failed")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"regime": req.Regime,
		"status": "applied",
	})
}
