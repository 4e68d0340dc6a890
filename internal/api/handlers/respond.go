package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Reathyze20/akcion/internal/contracts"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondDomainError maps the contract sentinels onto HTTP statuses.
// 도메인 에러 → 상태코드 매핑은 여기서만
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contracts.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, contracts.ErrInputRejected):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contracts.ErrConcurrencyConflict):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, contracts.ErrCollaboratorUnavailable):
		respondError(w, http.StatusBadGateway, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
