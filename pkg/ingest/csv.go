package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/veridata/veridata-engine/pkg/models"
)

// DecodeCSV parses delimited text. The first record is the header; every
// later record becomes one row keyed by header names.
func DecodeCSV(data []byte, delimiter rune) ([]models.Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return []models.Row{}, nil
	}

	return rowsFromRecords(records[0], records[1:]), nil
}
