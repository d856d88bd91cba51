package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/models"
	"github.com/veridata/veridata-engine/pkg/services"
)

func newProfileHandler() *ProfileHandler {
	return NewProfileHandler(services.NewDatasetProfileService(zap.NewNop()), zap.NewNop())
}

func TestProfileEndpoint(t *testing.T) {
	body := `{"data":[{"a":1,"b":"x"},{"a":2,"b":"y"},{"a":null,"b":"x"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body))
	rec := httptest.NewRecorder()

	newProfileHandler().Profile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var analysis models.AnalysisRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &analysis); err != nil {
		t.Fatal(err)
	}
	if analysis.RowCount != 3 || analysis.ColumnCount != 2 {
		t.Errorf("counts = %d/%d", analysis.RowCount, analysis.ColumnCount)
	}
	if analysis.ColumnStats["a"].Type != models.TypeNumber {
		t.Errorf("column a type = %s", analysis.ColumnStats["a"].Type)
	}
}

func TestProfileEndpointEmptyDataset(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(`{"data":[]}`))
	rec := httptest.NewRecorder()

	newProfileHandler().Profile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestProfileEndpointInvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader("not json"))
	rec := httptest.NewRecorder()

	newProfileHandler().Profile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestProfileEndpointRejectsGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()

	newProfileHandler().Profile(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
