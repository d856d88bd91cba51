package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/apperrors"
	"github.com/veridata/veridata-engine/pkg/llm"
	"github.com/veridata/veridata-engine/pkg/models"
	"github.com/veridata/veridata-engine/pkg/services"
)

// InsightRequest carries the analysis, an optional row sample, and an
// optional column to focus the recommendations on.
type InsightRequest struct {
	Analysis *models.AnalysisRecord `json:"analysis"`
	Sample   []models.Row           `json:"sample"`
	Column   string                 `json:"column"`
}

// InsightHandler handles AI insight generation requests.
type InsightHandler struct {
	insights services.InsightService
	logger   *zap.Logger
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insights services.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{insights: insights, logger: logger}
}

// RegisterRoutes registers the insight handler's routes on the given mux.
func (h *InsightHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/ai", h.Insights)
}

// Insights handles POST /api/ai requests. A best-effort degraded result
// (raw text with failureReason set) is still a 200; only transport and
// configuration failures are errors.
func (h *InsightHandler) Insights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Analysis == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "analysis is required")
		return
	}

	result, err := h.insights.GetInsights(r.Context(), req.Analysis, req.Sample, req.Column)
	if err != nil {
		if errors.Is(err, apperrors.ErrMissingAPIKey) {
			_ = ErrorResponse(w, http.StatusBadRequest, "AI provider is not configured")
			return
		}
		var llmErr *llm.Error
		if errors.As(err, &llmErr) {
			h.logger.Error("Model request failed",
				zap.String("error_type", string(llmErr.Type)),
				zap.Error(err))
			_ = ErrorResponse(w, http.StatusBadGateway, "model request failed")
			return
		}
		h.logger.Error("Insight generation failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "insight generation failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode insight response", zap.Error(err))
	}
}
