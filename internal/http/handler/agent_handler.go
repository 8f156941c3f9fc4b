package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lss-analytics/training-api/internal/service"
	"go.uber.org/zap"
)

// AgentHandler exposes the query, refresh and export endpoints. It is a
// thin shell; all behavior lives in the agent service.
type AgentHandler struct {
	agentService *service.AgentService
	version      string
	logger       *zap.Logger
}

func NewAgentHandler(agentService *service.AgentService, version string, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
		version:      version,
		logger:       logger,
	}
}

type askRequest struct {
	Vraag string `json:"vraag" validate:"required,max=2000"`
}

type askResponse struct {
	Antwoord string `json:"antwoord"`
}

// Ask answers a natural-language question about the registration data.
func (h *AgentHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Ongeldig verzoek."})
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Het veld 'vraag' is verplicht."})
		return
	}

	answer, err := h.agentService.AnswerQuery(r.Context(), req.Vraag)
	if err != nil {
		h.logger.Error("failed to answer query", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, askResponse{Antwoord: answer})
}

// Refresh reloads the full dataset and atomically replaces the snapshot.
func (h *AgentHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.agentService.Refresh(r.Context())
	if err != nil {
		h.logger.Error("failed to refresh data", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "Data ververst",
		"inschrijvingen": count,
	})
}

type exportRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

// Export streams a filtered CSV export. The query comes from either the
// "query" URL parameter or a JSON body.
func (h *AgentHandler) Export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" && r.Body != nil {
		var req exportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			query = req.Query
		}
	}
	if query == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Het veld 'query' is verplicht."})
		return
	}

	filename, data, err := h.agentService.Export(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to export data", zap.Error(err))
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Health is the service health check.
func (h *AgentHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   h.version,
	})
}

// Root is the basic liveness endpoint.
func (h *AgentHandler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
