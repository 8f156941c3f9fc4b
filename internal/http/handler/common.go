package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lss-analytics/training-api/internal/domain"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondDomainError maps typed domain errors onto an HTTP status and a
// Dutch, human-readable message. Downstream detail never reaches the
// client; stack traces never leave the logs.
func respondDomainError(w http.ResponseWriter, err error) {
	var (
		futureErr     *domain.FuturePeriodError
		parseErr      *domain.ParseError
		ingestionErr  *domain.IngestionError
		completionErr *domain.CompletionError
	)

	switch {
	case errors.Is(err, domain.ErrNoDataLoaded):
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "Er is nog geen data geladen. Ververs de data en probeer het opnieuw.",
		})
	case errors.As(err, &futureErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: futureErr.Error()})
	case errors.As(err, &parseErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: parseErr.Error()})
	case errors.As(err, &ingestionErr):
		respondJSON(w, http.StatusBadGateway, errorResponse{Error: ingestionErr.Error()})
	case errors.As(err, &completionErr):
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "De assistent is tijdelijk niet beschikbaar. Probeer het later opnieuw.",
		})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "Er is een onverwachte fout opgetreden.",
		})
	}
}
