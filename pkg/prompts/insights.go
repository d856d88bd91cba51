// Package prompts renders the schema-constrained prompts for the insight
// pipeline. All output is deterministic for identical inputs: no timestamps
// and no random tokens, so prompts are usable in cache keys and tests.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/veridata/veridata-engine/pkg/models"
)

// insightSchema is the strict output contract, stated verbatim in every
// prompt so the model cannot drift between attempts.
const insightSchema = `{"summary": string, "recommendations": [{"step": string, "severity": "low|medium|high"}], "notes"?: string}`

// BuildInsightSystemMessage returns the system message for insight requests.
func BuildInsightSystemMessage() string {
	return `You are a data quality assistant. You analyze dataset quality profiles and respond with strict JSON only.`
}

// BuildInsightPrompt creates the first-attempt prompt: the schema, two
// few-shot examples, the serialized analysis, and a bounded row sample.
// When column is non-empty the model is told to focus exclusively on it.
func BuildInsightPrompt(analysis *models.AnalysisRecord, sample []models.Row, column string) string {
	var b strings.Builder

	b.WriteString("Given an analysis summary and a small sample, produce a strict JSON object only (no surrounding explanation) that follows this schema:\n")
	b.WriteString(insightSchema)
	b.WriteString("\nIf a recommendation applies to a specific column, include the column name in the step text. Keep summary to one short paragraph. Keep recommendations concise (1-2 short sentences each).\n")
	if column != "" {
		fmt.Fprintf(&b, "Focus your recommendations exclusively on the column: %s.\n", column)
	}
	b.WriteString("\nNow provide the JSON only. Do not include any commentary.\n")

	writeFewShotExamples(&b)
	writeAnalysisBlock(&b, analysis, sample)

	return b.String()
}

// BuildCorrectivePrompt creates the follow-up prompt after a validation
// failure. It restates the schema, embeds the previous invalid output
// verbatim, and repeats the original analysis and sample.
func BuildCorrectivePrompt(previousOutput string, analysis *models.AnalysisRecord, sample []models.Row, column string) string {
	var b strings.Builder

	b.WriteString("Your previous response did not conform to the required schema. Respond again with a strict JSON object only (no surrounding explanation) that follows this schema:\n")
	b.WriteString(insightSchema)
	b.WriteString("\n")
	if column != "" {
		fmt.Fprintf(&b, "Focus your recommendations exclusively on the column: %s.\n", column)
	}

	b.WriteString("\nYour previous invalid response was:\n")
	b.WriteString(previousOutput)
	b.WriteString("\n")

	writeAnalysisBlock(&b, analysis, sample)

	return b.String()
}

// writeFewShotExamples appends two short examples, one generic and one
// column-focused, to encourage consistent JSON output.
func writeFewShotExamples(b *strings.Builder) {
	b.WriteString("\nExample 1:\nUser input: small analysis with missingness on columns 'age' and 'email'\nResponse JSON:\n")
	b.WriteString(`{"summary":"Dataset has some missing ages and many missing emails; overall numeric columns look okay.","recommendations":[{"step":"For column 'email', remove rows where email is null or apply an imputation strategy.","severity":"medium"},{"step":"For column 'age', check for outliers >120 and replace with null.","severity":"low"}],"notes":"Phone numbers appear consistent."}`)
	b.WriteString("\n")

	b.WriteString("\nExample 2 (column-focused):\nUser input: focus on column 'price' with many zeros and some negative values.\nResponse JSON:\n")
	b.WriteString(`{"summary":"'price' contains zeros and negative values suggesting data-entry issues.","recommendations":[{"step":"Filter out negative prices and investigate source rows for incorrect sign.","severity":"high"},{"step":"Treat zero prices as missing if business rules allow, or verify with source.","severity":"medium"}],"notes":"Consider currency normalization."}`)
	b.WriteString("\n")
}

// writeAnalysisBlock appends the serialized analysis and row sample.
// encoding/json sorts map keys, so the block is deterministic.
func writeAnalysisBlock(b *strings.Builder, analysis *models.AnalysisRecord, sample []models.Row) {
	analysisJSON, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		analysisJSON = []byte("{}")
	}
	if sample == nil {
		sample = []models.Row{}
	}
	sampleJSON, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		sampleJSON = []byte("[]")
	}

	b.WriteString("\nAnalysis:\n")
	b.Write(analysisJSON)
	b.WriteString("\n\nSample (first rows):\n")
	b.Write(sampleJSON)
	b.WriteString("\n")
}
