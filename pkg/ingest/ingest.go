// Package ingest decodes uploaded tabular files into normalized in-memory
// rows. Supported formats are CSV, TSV, JSON arrays, and XLSX workbooks.
package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/veridata/veridata-engine/pkg/apperrors"
	"github.com/veridata/veridata-engine/pkg/models"
)

var numericCellPattern = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)

// DecodeFile decodes file contents into rows, dispatching on the filename
// extension. Returns apperrors.ErrUnsupportedFormat for unknown extensions.
func DecodeFile(filename string, data []byte) ([]models.Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return DecodeCSV(data, ',')
	case ".tsv":
		return DecodeCSV(data, '\t')
	case ".json":
		return DecodeJSON(data)
	case ".xlsx":
		return DecodeXLSX(data)
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// normalizeCell maps a raw text cell to its runtime value: empty cells
// become nil, numeric-looking cells become float64, everything else stays
// a trimmed string.
func normalizeCell(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if numericCellPattern.MatchString(trimmed) {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return n
		}
	}
	return trimmed
}

// rowsFromRecords builds rows from a header and text records. Short records
// are padded with nil for trailing columns.
func rowsFromRecords(header []string, records [][]string) []models.Row {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	rows := make([]models.Row, 0, len(records))
	for _, record := range records {
		row := make(models.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = normalizeCell(record[i])
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows
}
