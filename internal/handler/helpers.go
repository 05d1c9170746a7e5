package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boddenberg/financeiro-bfa-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var rejected *domain.ErrRejected
	var circuitOpen *domain.ErrCircuitOpen
	var malformed *domain.ErrMalformedResponse
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &rejected):
		logger.Debug("rejected by ledger api", zap.String("error", rejected.Message))
		writeError(w, http.StatusUnprocessableEntity, rejected.Message)
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &malformed):
		logger.Error("malformed ledger api response", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &external):
		logger.Error("ledger api failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
