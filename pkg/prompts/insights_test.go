package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridata/veridata-engine/pkg/models"
)

func testAnalysis() *models.AnalysisRecord {
	return &models.AnalysisRecord{
		RowCount:    3,
		ColumnCount: 2,
		Score:       87.5,
		Missingness: map[string]float64{"age": 25.0, "name": 0.0},
		ColumnStats: map[string]*models.ColumnProfile{
			"age":  {Name: "age", Type: models.TypeNumber},
			"name": {Name: "name", Type: models.TypeString},
		},
	}
}

func TestBuildInsightPromptContainsSchemaAndExamples(t *testing.T) {
	prompt := BuildInsightPrompt(testAnalysis(), nil, "")

	assert.Contains(t, prompt, insightSchema)
	assert.Contains(t, prompt, "Example 1:")
	assert.Contains(t, prompt, "Example 2 (column-focused):")
	assert.Contains(t, prompt, "Analysis:")
	assert.Contains(t, prompt, "Sample (first rows):")
	assert.NotContains(t, prompt, "exclusively on the column")
}

func TestBuildInsightPromptColumnFocus(t *testing.T) {
	prompt := BuildInsightPrompt(testAnalysis(), nil, "age")
	assert.Contains(t, prompt, "Focus your recommendations exclusively on the column: age.")
}

func TestBuildInsightPromptDeterministic(t *testing.T) {
	analysis := testAnalysis()
	sample := []models.Row{{"age": float64(30), "name": "A"}}

	first := BuildInsightPrompt(analysis, sample, "age")
	second := BuildInsightPrompt(analysis, sample, "age")

	require.Equal(t, first, second)
}

func TestBuildCorrectivePromptEmbedsPreviousOutput(t *testing.T) {
	previous := "I think the data looks mostly fine overall."
	prompt := BuildCorrectivePrompt(previous, testAnalysis(), nil, "")

	assert.Contains(t, prompt, insightSchema)
	assert.Contains(t, prompt, previous)
	assert.Contains(t, prompt, "did not conform")
	assert.True(t, strings.Contains(prompt, "Analysis:"))
}
