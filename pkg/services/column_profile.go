// Package services implements the data-quality profiling engine and the
// schema-enforcing insight pipeline.
package services

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/veridata/veridata-engine/pkg/models"
)

// Type inference patterns matched against value string forms.
var (
	numericPattern = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T.*)?$`)
)

// sampleValueLimit caps display samples in a column profile.
const sampleValueLimit = 5

// ProfileColumn infers the semantic type of a column and computes its
// summary statistics from the full ordered list of row values. It is pure
// and deterministic: identical input produces an identical profile.
//
// Type checks run in fixed precedence number, boolean, date, string; each
// requires 100% conformance across non-missing values, so a single
// non-conforming value demotes the column to string.
func ProfileColumn(name string, values []any) *models.ColumnProfile {
	profile := &models.ColumnProfile{
		Name:         name,
		Type:         models.TypeString,
		SampleValues: []any{},
	}

	present := make([]any, 0, len(values))
	for _, v := range values {
		if isMissingValue(v) {
			profile.MissingCount++
			continue
		}
		present = append(present, v)
		if len(profile.SampleValues) < sampleValueLimit {
			profile.SampleValues = append(profile.SampleValues, v)
		}
	}

	if len(values) > 0 {
		profile.MissingPercent = round2(float64(profile.MissingCount) / float64(len(values)) * 100)
	}

	unique := make(map[string]struct{}, len(present))
	for _, v := range present {
		unique[stringForm(v)] = struct{}{}
	}
	profile.UniqueCount = len(unique)

	profile.Type = inferColumnType(present)

	switch profile.Type {
	case models.TypeNumber:
		setNumericStats(profile, present)
	case models.TypeDate:
		setDateStats(profile, present)
	}

	return profile
}

// inferColumnType applies the precedence number, boolean, date; an all-null
// column defaults to string.
func inferColumnType(present []any) models.ColumnType {
	if len(present) == 0 {
		return models.TypeString
	}

	allNumeric := true
	allNumericForm := true
	allBool := true
	allDateForm := true
	for _, v := range present {
		if _, ok := v.(float64); !ok {
			allNumeric = false
		}
		if _, ok := v.(bool); !ok {
			allBool = false
		}
		form := stringForm(v)
		if !numericPattern.MatchString(form) {
			allNumericForm = false
		}
		if !isoDatePattern.MatchString(form) {
			allDateForm = false
		}
	}

	switch {
	case allNumeric || allNumericForm:
		return models.TypeNumber
	case allBool:
		return models.TypeBoolean
	case allDateForm:
		return models.TypeDate
	default:
		return models.TypeString
	}
}

// setNumericStats computes min/max/mean/median over parseable numbers.
func setNumericStats(profile *models.ColumnProfile, present []any) {
	nums := make([]float64, 0, len(present))
	for _, v := range present {
		if n, err := strconv.ParseFloat(stringForm(v), 64); err == nil {
			nums = append(nums, n)
		}
	}
	if len(nums) == 0 {
		return
	}

	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	mean := sum / float64(len(nums))

	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	// Median is the element at floor(n/2) in sorted order: the upper-middle
	// value for even-length lists, not the averaged middle. Kept for
	// compatibility with existing consumers of the analysis payload.
	median := sorted[len(sorted)/2]

	profile.Min = &sorted[0]
	profile.Max = &sorted[len(sorted)-1]
	profile.Mean = &mean
	profile.Median = &median
}

// setDateStats computes the ISO-8601 date bounds over values matching the
// ISO date pattern.
func setDateStats(profile *models.ColumnProfile, present []any) {
	var minDate, maxDate time.Time
	found := false
	for _, v := range present {
		form := stringForm(v)
		if !isoDatePattern.MatchString(form) {
			continue
		}
		ts, ok := parseISODate(form)
		if !ok {
			continue
		}
		if !found || ts.Before(minDate) {
			minDate = ts
		}
		if !found || ts.After(maxDate) {
			maxDate = ts
		}
		found = true
	}
	if !found {
		return
	}

	profile.MinDate = minDate.UTC().Format(time.RFC3339)
	profile.MaxDate = maxDate.UTC().Format(time.RFC3339)
}

// parseISODate parses YYYY-MM-DD optionally followed by a time component.
func parseISODate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// isMissingValue reports whether a value counts as missing: nil, or a
// string that is empty after trimming.
func isMissingValue(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// stringForm is the canonical string representation used for type checks,
// uniqueness counting, and numeric parsing. Floats drop trailing zeros so
// numeric 10 and the string "10" share a form.
func stringForm(v any) string {
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
		return ""
	}
}

// round2 rounds to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
