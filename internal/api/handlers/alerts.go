package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Reathyze20/akcion/internal/brain"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// AlertHandler handles drift alert API endpoints
// ⭐ SSOT: 드리프트 알림 API 핸들러는 이 구조체에서만
type AlertHandler struct {
	service *brain.Service
	logger  *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service *brain.Service, log *logger.Logger) *AlertHandler {
	return &AlertHandler{
		service: service,
		logger:  log,
	}
}

// ListOpen returns unacknowledged alerts, newest first
// GET /api/alerts?limit=100
func (h *AlertHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.OpenAlerts(r.Context(), parseLimit(r, 100))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// ListByTicker returns the alert history for one ticker
// GET /api/alerts/{ticker}/history?limit=100
func (h *AlertHandler) ListByTicker(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]

	alerts, err := h.service.AlertsForTicker(r.Context(), ticker, parseLimit(r, 100))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"alerts": alerts,
	})
}

// Acknowledge marks an alert as seen
// POST /api/alerts/{id}/ack
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	if err := h.service.AcknowledgeAlert(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":     id,
		"status": "acknowledged",
	})
}
