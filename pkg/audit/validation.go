// Package audit provides append-only diagnostic logging for insight
// validation failures. Entries are written in structured JSON form and are
// never read back by the engine.
package audit

import (
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// maxSnippetChars bounds the raw model output carried in each entry.
const maxSnippetChars = 2000

// ValidationFailure is one diagnostic entry describing a model response
// that failed schema validation.
type ValidationFailure struct {
	Timestamp   time.Time `json:"timestamp"`
	Fingerprint string    `json:"fingerprint"`
	Attempt     int       `json:"attempt"`
	Reason      string    `json:"reason"`
	TextSnippet string    `json:"text_snippet"`
}

// ValidationAuditor records validation failures with a dedicated logger
// namespace for easy filtering.
type ValidationAuditor struct {
	logger *zap.Logger
}

// NewValidationAuditor creates a new auditor.
func NewValidationAuditor(logger *zap.Logger) *ValidationAuditor {
	return &ValidationAuditor{logger: logger.Named("insight_audit")}
}

// RecordFailure appends one entry. The write is best-effort: it must never
// abort the primary request path, so no error is returned.
func (a *ValidationAuditor) RecordFailure(fingerprint string, attempt int, reason, rawText string) {
	if a == nil || a.logger == nil {
		return
	}

	a.logger.Warn("insight validation failure",
		zap.Time("timestamp", time.Now().UTC()),
		zap.String("fingerprint", fingerprint),
		zap.Int("attempt", attempt),
		zap.String("reason", reason),
		zap.String("text_snippet", truncateSnippet(rawText)))
}

// truncateSnippet bounds the snippet without splitting a multi-byte rune at
// the cut point.
func truncateSnippet(rawText string) string {
	if len(rawText) <= maxSnippetChars {
		return rawText
	}
	cut := maxSnippetChars
	for cut > 0 && !utf8.RuneStart(rawText[cut]) {
		cut--
	}
	return rawText[:cut]
}
