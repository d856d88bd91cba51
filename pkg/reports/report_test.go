package reports

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/veridata/veridata-engine/pkg/models"
)

func sampleReport() *Report {
	return &Report{
		Analysis: &models.AnalysisRecord{
			RowCount:    2,
			ColumnCount: 2,
			Score:       100,
			Missingness: map[string]float64{"a": 0, "b": 0},
		},
		Data: []models.Row{
			{"a": 1.0, "b": "x"},
			{"a": 2.0, "b": nil},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteJSON(&buf); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := decoded["analysis"]; !ok {
		t.Error("missing analysis key")
	}
	if _, ok := decoded["data"]; !ok {
		t.Error("missing data key")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "a,b" {
		t.Errorf("header = %q, expected sorted columns", lines[0])
	}
	if lines[1] != "1,x" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2," {
		t.Errorf("expected nil rendered empty, got %q", lines[2])
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleReport().WriteYAML(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "analysis:") {
		t.Errorf("missing analysis key in %q", out)
	}
	if !strings.Contains(out, "rowCount: 2") {
		t.Errorf("expected yaml field tags honored, got %q", out)
	}
}
