package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/apperrors"
	"github.com/veridata/veridata-engine/pkg/models"
	"github.com/veridata/veridata-engine/pkg/services"
)

// ProfileRequest carries the rows to profile.
type ProfileRequest struct {
	Data []models.Row `json:"data"`
}

// ProfileHandler handles dataset profiling requests.
type ProfileHandler struct {
	profiles services.DatasetProfileService
	logger   *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles services.DatasetProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// RegisterRoutes registers the profile handler's routes on the given mux.
func (h *ProfileHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/profile", h.Profile)
}

// Profile handles POST /api/profile requests: it builds the full quality
// analysis for the submitted rows.
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	analysis, err := h.profiles.Build(req.Data)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmptyDataset) {
			_ = ErrorResponse(w, http.StatusBadRequest, "dataset is empty")
			return
		}
		h.logger.Error("Failed to profile dataset", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "failed to profile dataset")
		return
	}

	if err := WriteJSON(w, http.StatusOK, analysis); err != nil {
		h.logger.Error("Failed to encode analysis response", zap.Error(err))
	}
}
