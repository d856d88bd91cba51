package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/veridata/veridata-engine/pkg/models"
)

// DecodeJSON parses a JSON array of flat objects. Scalar values pass
// through normalization; nested objects and arrays are flattened to their
// compact JSON text so every cell stays a scalar.
func DecodeJSON(data []byte) ([]models.Row, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse json: expected an array of objects: %w", err)
	}

	rows := make([]models.Row, 0, len(raw))
	for _, obj := range raw {
		row := make(models.Row, len(obj))
		for key, value := range obj {
			row[key] = normalizeJSONValue(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeJSONValue(v any) any {
	switch t := v.(type) {
	case nil, float64, bool:
		return t
	case string:
		return normalizeCell(t)
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		return string(encoded)
	}
}
