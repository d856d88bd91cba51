package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/models"
	"github.com/veridata/veridata-engine/pkg/reports"
)

// ReportRequest carries a finished analysis and optionally the rows it was
// computed from, for export.
type ReportRequest struct {
	Analysis *models.AnalysisRecord `json:"analysis"`
	Data     []models.Row           `json:"data"`
}

// ReportHandler handles report export requests.
type ReportHandler struct {
	logger *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(logger *zap.Logger) *ReportHandler {
	return &ReportHandler{logger: logger}
}

// RegisterRoutes registers the report handler's routes on the given mux.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/report", h.Export)
}

// Export handles POST /api/report requests. The format query parameter
// selects json (default), csv, or yaml; the response is a file download.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Analysis == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "analysis is required")
		return
	}

	report := &reports.Report{Analysis: req.Analysis, Data: req.Data}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var err error
	switch format {
	case "json":
		h.setDownloadHeaders(w, "application/json", "report.json")
		err = report.WriteJSON(w)
	case "csv":
		h.setDownloadHeaders(w, "text/csv", "report.csv")
		err = report.WriteCSV(w)
	case "yaml":
		h.setDownloadHeaders(w, "application/yaml", "report.yaml")
		err = report.WriteYAML(w)
	default:
		_ = ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("unsupported report format: %s", format))
		return
	}

	if err != nil {
		h.logger.Error("Failed to write report",
			zap.String("format", format),
			zap.Error(err))
	}
}

func (h *ReportHandler) setDownloadHeaders(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
