package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Reathyze20/akcion/internal/api/handlers"
	"github.com/Reathyze20/akcion/internal/realtime"
	"github.com/Reathyze20/akcion/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	verdictHandler *handlers.VerdictHandler,
	thesisHandler *handlers.ThesisHandler,
	regimeHandler *handlers.RegimeHandler,
	lineHandler *handlers.PriceLineHandler,
	alertHandler *handlers.AlertHandler,
	hub *realtime.Hub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Verdict endpoints
	api.HandleFunc("/verdicts/{ticker}/evaluate", verdictHandler.Evaluate).Methods("POST")
	api.HandleFunc("/verdicts/{ticker}", verdictHandler.Latest).Methods("GET")

	// Thesis endpoints
	api.HandleFunc("/theses", thesisHandler.Create).Methods("POST")
	api.HandleFunc("/theses/{ticker}", thesisHandler.Get).Methods("GET")
	api.HandleFunc("/theses/{ticker}/merge", thesisHandler.Merge).Methods("POST")
	api.HandleFunc("/theses/{ticker}/history", thesisHandler.ScoreHistory).Methods("GET")
	api.HandleFunc("/theses/{ticker}/narrative", thesisHandler.Narrative).Methods("GET")

	// Market regime endpoints
	api.HandleFunc("/regime", regimeHandler.Get).Methods("GET")
	api.HandleFunc("/regime", regimeHandler.Set).Methods("PUT")

	// Price line endpoints
	api.HandleFunc("/lines/{ticker}", lineHandler.Get).Methods("GET")
	api.HandleFunc("/lines/{ticker}", lineHandler.Set).Methods("PUT")

	// Alert endpoints
	api.HandleFunc("/alerts", alertHandler.ListOpen).Methods("GET")
	api.HandleFunc("/alerts/{ticker}/history", alertHandler.ListByTicker).Methods("GET")
	api.HandleFunc("/alerts/{id}/ack", alertHandler.Acknowledge).Methods("POST")

	// Realtime alert stream
	if hub != nil {
		r.HandleFunc("/ws/alerts", hub.ServeWS)
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "akcion-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
