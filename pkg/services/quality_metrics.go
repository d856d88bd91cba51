package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/veridata/veridata-engine/pkg/models"
)

// Quality metrics are pure functions over the full in-memory row set.
// Callers must reject empty row sets before invoking them; the functions
// assume at least one row.

// minOutlierSamples is the smallest numeric population the IQR method is
// applied to; columns below it report zero outliers.
const minOutlierSamples = 4

// ColumnNames returns the sorted union of column names across all rows.
// Rows share one column set, but a row missing a key still contributes nil
// for that column everywhere else.
func ColumnNames(rows []models.Row) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for name := range row {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Missingness returns the percentage of missing values per column, rounded
// to two decimal places. A value is missing when it is nil or its string
// form is empty after trimming.
func Missingness(rows []models.Row) map[string]float64 {
	columns := ColumnNames(rows)
	total := float64(len(rows))

	result := make(map[string]float64, len(columns))
	for _, col := range columns {
		missing := 0
		for _, row := range rows {
			if isMissingValue(row[col]) {
				missing++
			}
		}
		result[col] = round2(float64(missing) / total * 100)
	}
	return result
}

// DuplicateCount counts rows whose full content exactly matches an earlier
// row. The first occurrence is not a duplicate; every subsequent identical
// row is. Equality is content-based over the canonical encoding, so key
// order never matters and numeric 1 never collides with the string "1".
func DuplicateCount(rows []models.Row) int {
	columns := ColumnNames(rows)
	seen := make(map[string]struct{}, len(rows))
	dups := 0
	for _, row := range rows {
		key := canonicalRowKey(row, columns)
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// TypeConsistency returns the distinct runtime value kinds observed per
// column, sorted. Diagnostic only.
func TypeConsistency(rows []models.Row) map[string][]string {
	columns := ColumnNames(rows)

	result := make(map[string][]string, len(columns))
	for _, col := range columns {
		kinds := make(map[string]struct{})
		for _, row := range rows {
			kinds[valueKind(row[col])] = struct{}{}
		}
		list := make([]string, 0, len(kinds))
		for kind := range kinds {
			list = append(list, kind)
		}
		sort.Strings(list)
		result[col] = list
	}
	return result
}

// DetectOutliers finds IQR outliers in one column. Non-missing values that
// parse as numbers are sorted ascending; Q1 is the element at floor(n/4)
// and Q3 the element at floor(3n/4) (0-based, no interpolation). A value is
// an outlier when it falls strictly outside [Q1-1.5*IQR, Q3+1.5*IQR].
// Reported values keep original row order.
func DetectOutliers(rows []models.Row, column string) models.OutlierSummary {
	nums := make([]float64, 0, len(rows))
	for _, row := range rows {
		v := row[column]
		if isMissingValue(v) {
			continue
		}
		if n, err := strconv.ParseFloat(stringForm(v), 64); err == nil {
			nums = append(nums, n)
		}
	}

	if len(nums) < minOutlierSamples {
		return models.OutlierSummary{Count: 0, Values: []float64{}}
	}

	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	outliers := []float64{}
	for _, v := range nums {
		if v < lower || v > upper {
			outliers = append(outliers, v)
		}
	}
	return models.OutlierSummary{Count: len(outliers), Values: outliers}
}

// canonicalRowKey encodes a row for structural-equality comparison: columns
// in sorted order, values in a kind-preserving encoding.
func canonicalRowKey(row models.Row, columns []string) string {
	var b strings.Builder
	for i, col := range columns {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(col)
		b.WriteByte('=')
		encodeValue(&b, row[col])
	}
	return b.String()
}

// encodeValue writes a value so that different runtime kinds never encode
// identically: strings keep their quotes, numbers and booleans are bare.
func encodeValue(b *strings.Builder, v any) {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case string:
		b.WriteString(strconv.Quote(t))
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case bool:
		b.WriteString(strconv.FormatBool(t))
	default:
		b.WriteString(strconv.Quote(stringForm(t)))
	}
}

// valueKind names the runtime kind of a normalized scalar.
func valueKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case string:
		return "string"
	default:
		return "unknown"
	}
}
