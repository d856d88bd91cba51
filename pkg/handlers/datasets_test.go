package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func multipartUpload(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadCSV(t *testing.T) {
	req := multipartUpload(t, "data.csv", "name,age\nAlice,30\nBob,\n")
	rec := httptest.NewRecorder()

	NewDatasetHandler(zap.NewNop()).Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" {
		t.Error("expected a generated dataset id")
	}
	if resp.RowCount != 2 {
		t.Errorf("rowCount = %d, want 2", resp.RowCount)
	}
	if len(resp.Columns) != 2 || resp.Columns[0] != "age" || resp.Columns[1] != "name" {
		t.Errorf("columns = %v, want sorted [age name]", resp.Columns)
	}
	if resp.Data[0]["age"] != 30.0 {
		t.Errorf("age = %v, want numeric 30", resp.Data[0]["age"])
	}
}

func TestUploadUnsupportedFormat(t *testing.T) {
	req := multipartUpload(t, "data.parquet", "binary")
	rec := httptest.NewRecorder()

	NewDatasetHandler(zap.NewNop()).Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadMissingFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("other", "value")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/datasets", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	NewDatasetHandler(zap.NewNop()).Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadRejectsGet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/datasets", nil)
	rec := httptest.NewRecorder()

	NewDatasetHandler(zap.NewNop()).Upload(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
