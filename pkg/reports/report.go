// Package reports renders quality analyses for export in JSON, CSV, and
// YAML form.
package reports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/veridata/veridata-engine/pkg/models"
)

// Report is one exportable quality report: the analysis plus the profiled
// rows it was computed from. Data is optional for analysis-only exports.
type Report struct {
	Analysis *models.AnalysisRecord `json:"analysis" yaml:"analysis"`
	Data     []models.Row           `json:"data,omitempty" yaml:"data,omitempty"`
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	encoded, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}
	_, err = w.Write(encoded)
	return err
}

// WriteYAML renders the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report yaml: %w", err)
	}
	return nil
}

// WriteCSV renders the report's rows as CSV with a sorted-column header.
// The analysis itself has no tabular shape, so CSV export covers data only.
func (r *Report) WriteCSV(w io.Writer) error {
	columns := make(map[string]struct{})
	for _, row := range r.Data {
		for name := range row {
			columns[name] = struct{}{}
		}
	}
	header := make([]string, 0, len(columns))
	for name := range columns {
		header = append(header, name)
	}
	sort.Strings(header)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(header))
	for _, row := range r.Data {
		for i, col := range header {
			record[i] = cellText(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
