package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/apperrors"
	"github.com/veridata/veridata-engine/pkg/ingest"
	"github.com/veridata/veridata-engine/pkg/models"
	"github.com/veridata/veridata-engine/pkg/services"
)

// maxUploadBytes bounds the accepted upload size (32 MiB).
const maxUploadBytes = 32 << 20

// UploadResponse describes a decoded dataset upload.
type UploadResponse struct {
	ID       string       `json:"id"`
	RowCount int          `json:"rowCount"`
	Columns  []string     `json:"columns"`
	Data     []models.Row `json:"data"`
}

// DatasetHandler handles dataset upload and decoding.
type DatasetHandler struct {
	logger *zap.Logger
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{logger: logger}
}

// RegisterRoutes registers the dataset handler's routes on the given mux.
func (h *DatasetHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/datasets", h.Upload)
}

// Upload handles POST /api/datasets requests. The body is a multipart form
// with one "file" part; the decoded, normalized rows are echoed back with a
// generated dataset id.
func (h *DatasetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	rows, err := ingest.DecodeFile(header.Filename, data)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnsupportedFormat) {
			_ = ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Warn("Failed to decode upload",
			zap.String("filename", header.Filename),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadRequest, "failed to decode file")
		return
	}

	response := UploadResponse{
		ID:       uuid.NewString(),
		RowCount: len(rows),
		Columns:  services.ColumnNames(rows),
		Data:     rows,
	}

	h.logger.Info("Dataset decoded",
		zap.String("dataset_id", response.ID),
		zap.String("filename", header.Filename),
		zap.Int("rows", response.RowCount),
		zap.Int("columns", len(response.Columns)))

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode upload response", zap.Error(err))
	}
}
