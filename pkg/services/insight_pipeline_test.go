package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/apperrors"
	"github.com/veridata/veridata-engine/pkg/audit"
	"github.com/veridata/veridata-engine/pkg/llm"
	"github.com/veridata/veridata-engine/pkg/models"
)

const validInsightJSON = `{"summary":"ok","recommendations":[{"step":"fix","severity":"low"}]}`

func testAnalysis() *models.AnalysisRecord {
	return &models.AnalysisRecord{
		RowCount:    3,
		ColumnCount: 1,
		Score:       95.5,
		Missingness: map[string]float64{"a": 0},
	}
}

func newTestInsightService(client llm.ModelClient, opts InsightOptions) (InsightService, *InsightCache) {
	cache := NewInsightCache(0)
	auditor := audit.NewValidationAuditor(zap.NewNop())
	return NewInsightService(client, cache, auditor, opts, zap.NewNop()), cache
}

func TestGetInsightsNilClient(t *testing.T) {
	svc, _ := newTestInsightService(nil, InsightOptions{})

	_, err := svc.GetInsights(context.Background(), testAnalysis(), nil, "")
	require.ErrorIs(t, err, apperrors.ErrMissingAPIKey)
}

func TestGetInsightsFirstAttemptSucceeds(t *testing.T) {
	mock := llm.NewMockModelClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string) (string, error) {
		return validInsightJSON, nil
	}
	svc, cache := newTestInsightService(mock, InsightOptions{})

	result, err := svc.GetInsights(context.Background(), testAnalysis(), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Attempts)
	assert.False(t, result.Cached, "first request must not be marked cached")
	require.NotNil(t, result.Record)
	assert.Equal(t, "ok", result.Record.Summary)
	assert.Equal(t, 1, cache.Len())
}

func TestGetInsightsRetriesWithCorrectivePrompt(t *testing.T) {
	mock := llm.NewMockModelClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string) (string, error) {
		if mock.CompleteCalls < 3 {
			return "sorry, I cannot do that", nil
		}
		return validInsightJSON, nil
	}
	svc, _ := newTestInsightService(mock, InsightOptions{MaxAttempts: 3})

	result, err := svc.GetInsights(context.Background(), testAnalysis(), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Attempts)
	require.NotNil(t, result.Record, "expected a validated record on the final attempt")

	// later prompts are corrective: they embed the previous invalid output
	assert.Contains(t, mock.Prompts[1], "sorry, I cannot do that",
		"corrective prompt must embed the previous invalid response")
	assert.NotContains(t, mock.Prompts[0], "previous",
		"first prompt must not be corrective")
}

func TestGetInsightsExhaustion(t *testing.T) {
	mock := llm.NewMockModelClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string) (string, error) {
		return "still not json", nil
	}
	svc, cache := newTestInsightService(mock, InsightOptions{MaxAttempts: 3})

	result, err := svc.GetInsights(context.Background(), testAnalysis(), nil, "")
	require.NoError(t, err)

	assert.Nil(t, result.Record, "exhausted result must not carry a record")
	assert.Equal(t, "still not json", result.RawText)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, ReasonFinalFailed, result.FailureReason)
	assert.Equal(t, 0, cache.Len(), "degraded results must never be cached")
	assert.Equal(t, 3, mock.CompleteCalls)
}

func TestGetInsightsTransportErrorAbortsImmediately(t *testing.T) {
	mock := llm.NewMockModelClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string) (string, error) {
		return "", llm.NewError(llm.ErrorTypeServer, "upstream 503", true, nil)
	}
	svc, cache := newTestInsightService(mock, InsightOptions{MaxAttempts: 3})

	_, err := svc.GetInsights(context.Background(), testAnalysis(), nil, "")
	require.Error(t, err)

	var llmErr *llm.Error
	assert.ErrorAs(t, err, &llmErr, "expected wrapped llm.Error")
	assert.Equal(t, 1, mock.CompleteCalls, "transport errors must not retry")
	assert.Equal(t, 0, cache.Len(), "nothing must be cached on transport failure")
}

func TestGetInsightsServesFromCache(t *testing.T) {
	mock := llm.NewMockModelClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string) (string, error) {
		return validInsightJSON, nil
	}
	svc, _ := newTestInsightService(mock, InsightOptions{})

	first, err := svc.GetInsights(context.Background(), testAnalysis(), nil, "")
	require.NoError(t, err)
	second, err := svc.GetInsights(context.Background(), testAnalysis(), nil, "")
	require.NoError(t, err)

	assert.Equal(t, 1, mock.CompleteCalls, "second request must hit the cache")
	assert.True(t, second.Cached, "second result must be marked cached")
	assert.False(t, first.Cached, "the Cached flag must not leak into the stored entry")
	assert.Same(t, first.Record, second.Record)

	// cache hits replay the fresh response's metadata
	assert.Equal(t, first.RawText, second.RawText)
	assert.Equal(t, first.Attempts, second.Attempts)
}

func TestGetInsightsColumnChangesFingerprint(t *testing.T) {
	mock := llm.NewMockModelClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string) (string, error) {
		return validInsightJSON, nil
	}
	svc, _ := newTestInsightService(mock, InsightOptions{})

	_, err := svc.GetInsights(context.Background(), testAnalysis(), nil, "")
	require.NoError(t, err)
	_, err = svc.GetInsights(context.Background(), testAnalysis(), nil, "price")
	require.NoError(t, err)

	assert.Equal(t, 2, mock.CompleteCalls, "different columns must not share cache entries")
}

func TestGetInsightsTruncatesSample(t *testing.T) {
	var sawPrompt string
	mock := llm.NewMockModelClient()
	mock.CompleteFunc = func(ctx context.Context, prompt, system string) (string, error) {
		sawPrompt = prompt
		return validInsightJSON, nil
	}
	svc, _ := newTestInsightService(mock, InsightOptions{SampleLimit: 2})

	sample := []models.Row{
		{"a": "row-one"},
		{"a": "row-two"},
		{"a": "row-three"},
	}
	_, err := svc.GetInsights(context.Background(), testAnalysis(), sample, "")
	require.NoError(t, err)

	assert.Contains(t, sawPrompt, "row-two")
	assert.NotContains(t, sawPrompt, "row-three",
		"rows past the sample limit must not reach the prompt")
}

func TestFingerprintStability(t *testing.T) {
	a, err := Fingerprint(testAnalysis(), "col", 5)
	require.NoError(t, err)
	b, err := Fingerprint(testAnalysis(), "col", 5)
	require.NoError(t, err)

	assert.Equal(t, a, b, "identical inputs must produce identical fingerprints")
	assert.Len(t, a, 64)

	c, _ := Fingerprint(testAnalysis(), "col", 6)
	assert.NotEqual(t, a, c, "sample size must contribute to the fingerprint")
	d, _ := Fingerprint(testAnalysis(), "other", 5)
	assert.NotEqual(t, a, d, "column must contribute to the fingerprint")
}
