package audit

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	auditor := NewValidationAuditor(zap.New(core))

	auditor.RecordFailure("abc123", 2, "missing_summary", "not json at all")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["fingerprint"] != "abc123" {
		t.Errorf("fingerprint = %v, want abc123", fields["fingerprint"])
	}
	if fields["attempt"] != int64(2) {
		t.Errorf("attempt = %v, want 2", fields["attempt"])
	}
	if fields["reason"] != "missing_summary" {
		t.Errorf("reason = %v, want missing_summary", fields["reason"])
	}
	if fields["text_snippet"] != "not json at all" {
		t.Errorf("text_snippet = %v", fields["text_snippet"])
	}
}

func TestRecordFailureTruncatesSnippet(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	auditor := NewValidationAuditor(zap.New(core))

	auditor.RecordFailure("abc123", 1, "not_object", strings.Repeat("x", 5000))

	fields := logs.All()[0].ContextMap()
	snippet, ok := fields["text_snippet"].(string)
	if !ok {
		t.Fatal("text_snippet missing")
	}
	if len(snippet) != maxSnippetChars {
		t.Errorf("snippet length = %d, want %d", len(snippet), maxSnippetChars)
	}
}

func TestRecordFailureTruncatesOnRuneBoundary(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	auditor := NewValidationAuditor(zap.New(core))

	// 1999 ASCII bytes, then a 3-byte rune straddling the 2000-byte cut
	raw := strings.Repeat("x", maxSnippetChars-1) + "€€"
	auditor.RecordFailure("abc123", 1, "not_object", raw)

	snippet := logs.All()[0].ContextMap()["text_snippet"].(string)
	if !utf8.ValidString(snippet) {
		t.Error("snippet contains invalid UTF-8")
	}
	if len(snippet) != maxSnippetChars-1 {
		t.Errorf("snippet length = %d, want %d (cut walked back to the rune start)", len(snippet), maxSnippetChars-1)
	}
}

func TestRecordFailureNilAuditor(t *testing.T) {
	var auditor *ValidationAuditor
	// Must not panic.
	auditor.RecordFailure("abc", 1, "not_object", "raw")
}
