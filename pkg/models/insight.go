package models

// Severity grades how urgent a recommendation is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Recommendation is one suggested data-quality fix in canonical form.
// Loosely-shaped model output (bare strings, mixed-case severities) is
// normalized into this shape before any consumer sees it.
type Recommendation struct {
	Step     string   `json:"step" yaml:"step"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// InsightRecord is a validated, schema-conforming model response.
type InsightRecord struct {
	Summary         string           `json:"summary" yaml:"summary"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	Notes           string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// InsightResult is what the pipeline returns to callers: the validated
// record on success, or the best-effort raw text after exhausting retries.
type InsightResult struct {
	Record        *InsightRecord `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	RawText       string         `json:"text,omitempty" yaml:"text,omitempty"`
	Attempts      int            `json:"attempts" yaml:"attempts"`
	Cached        bool           `json:"cached" yaml:"cached"`
	FailureReason string         `json:"failureReason,omitempty" yaml:"failureReason,omitempty"`
}
