package services

import (
	"encoding/json"
	"strings"

	"github.com/veridata/veridata-engine/pkg/jsonutil"
	"github.com/veridata/veridata-engine/pkg/llm"
	"github.com/veridata/veridata-engine/pkg/models"
)

// Validation failure reasons, in rule order.
const (
	ReasonNotObject                 = "not_object"
	ReasonMissingSummary            = "missing_summary"
	ReasonMissingRecommendations    = "missing_recommendations"
	ReasonInvalidRecommendationItem = "invalid_recommendation_item"
	ReasonFinalFailed               = "final_failed"
)

// ValidationResult is the outcome of validating one model response.
type ValidationResult struct {
	Valid  bool
	Reason string
	Record *models.InsightRecord
}

// ValidateInsightResponse parses raw model output and validates it against
// the recommendation schema, normalizing loosely-shaped fields into the
// canonical record. Rules short-circuit on the first failure; a single
// malformed recommendation item fails the whole validation.
func ValidateInsightResponse(raw string) ValidationResult {
	parsed, ok := parseStrict(raw)
	if !ok {
		parsed, ok = parseExtracted(raw)
	}
	if !ok {
		return ValidationResult{Reason: ReasonNotObject}
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return ValidationResult{Reason: ReasonNotObject}
	}

	summary, ok := obj["summary"].(string)
	if !ok {
		return ValidationResult{Reason: ReasonMissingSummary}
	}

	items, ok := obj["recommendations"].([]any)
	if !ok {
		return ValidationResult{Reason: ReasonMissingRecommendations}
	}

	recommendations := make([]models.Recommendation, 0, len(items))
	for _, item := range items {
		rec, ok := normalizeRecommendation(item)
		if !ok {
			return ValidationResult{Reason: ReasonInvalidRecommendationItem}
		}
		recommendations = append(recommendations, rec)
	}

	record := &models.InsightRecord{
		Summary:         summary,
		Recommendations: recommendations,
	}
	// Non-string notes are dropped silently; they never invalidate.
	if notes, ok := obj["notes"].(string); ok {
		record.Notes = notes
	}

	return ValidationResult{Valid: true, Record: record}
}

// parseStrict attempts a direct JSON parse of the full text.
func parseStrict(raw string) (any, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

// parseExtracted is the fallback stage: extract the first balanced {...}
// substring and parse that.
func parseExtracted(raw string) (any, bool) {
	candidate, ok := llm.FirstJSONObject(raw)
	if !ok {
		return nil, false
	}
	return parseStrict(candidate)
}

// normalizeRecommendation coerces a recommendation item to canonical form.
// A bare string is promoted to a medium-severity step; an object must carry
// a string step. Any other shape is rejected.
func normalizeRecommendation(item any) (models.Recommendation, bool) {
	switch t := item.(type) {
	case string:
		return models.Recommendation{Step: t, Severity: models.SeverityMedium}, true
	case map[string]any:
		step, ok := t["step"].(string)
		if !ok {
			return models.Recommendation{}, false
		}
		return models.Recommendation{Step: step, Severity: normalizeSeverity(t["severity"])}, true
	default:
		return models.Recommendation{}, false
	}
}

// normalizeSeverity lower-cases and validates a severity value, defaulting
// to medium when absent or invalid.
func normalizeSeverity(v any) models.Severity {
	switch strings.ToLower(strings.TrimSpace(jsonutil.FlexibleString(v))) {
	case string(models.SeverityLow):
		return models.SeverityLow
	case string(models.SeverityHigh):
		return models.SeverityHigh
	case string(models.SeverityMedium):
		return models.SeverityMedium
	default:
		return models.SeverityMedium
	}
}
