// Package models defines the data model shared across the engine:
// normalized rows, column profiles, dataset analyses, and insight records.
package models

// Row is a single record of a tabular dataset, keyed by column name.
// Values are normalized scalars: nil, float64, bool, or string. Rows in a
// dataset share one column set; a missing key is treated as nil.
type Row map[string]any

// ColumnType is the inferred semantic type of a column.
type ColumnType string

const (
	TypeNumber  ColumnType = "number"
	TypeBoolean ColumnType = "boolean"
	TypeDate    ColumnType = "date"
	TypeString  ColumnType = "string"
)

// ColumnProfile holds the inferred type and summary statistics of one column.
// Numeric statistics are set only for number columns, date bounds only for
// date columns.
type ColumnProfile struct {
	Name           string     `json:"column" yaml:"column"`
	Type           ColumnType `json:"type" yaml:"type"`
	MissingCount   int        `json:"missingCount" yaml:"missingCount"`
	MissingPercent float64    `json:"missingPercent" yaml:"missingPercent"`
	UniqueCount    int        `json:"uniqueCount" yaml:"uniqueCount"`
	SampleValues   []any      `json:"sampleValues" yaml:"sampleValues"`

	Min    *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Mean   *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Median *float64 `json:"median,omitempty" yaml:"median,omitempty"`

	MinDate string `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate string `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
}

// OutlierSummary reports IQR outliers for a numeric column.
type OutlierSummary struct {
	Count  int       `json:"count" yaml:"count"`
	Values []float64 `json:"values" yaml:"values"`
}

// AnalysisRecord is the complete quality analysis of one dataset. It is
// immutable once built; consumers must not mutate the contained maps.
type AnalysisRecord struct {
	RowCount        int                       `json:"rowCount" yaml:"rowCount"`
	ColumnCount     int                       `json:"columnCount" yaml:"columnCount"`
	Score           float64                   `json:"score" yaml:"score"`
	Missingness     map[string]float64        `json:"missingness" yaml:"missingness"`
	Duplicates      int                       `json:"duplicates" yaml:"duplicates"`
	TypeConsistency map[string][]string       `json:"typeConsistency" yaml:"typeConsistency"`
	ColumnStats     map[string]*ColumnProfile `json:"columnStats" yaml:"columnStats"`
	Outliers        map[string]OutlierSummary `json:"outliers" yaml:"outliers"`
}
