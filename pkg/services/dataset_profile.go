package services

import (
	"math"

	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/apperrors"
	"github.com/veridata/veridata-engine/pkg/models"
)

// duplicatePenaltyCap bounds how many score points duplicate rows can cost.
const duplicatePenaltyCap = 30.0

// DatasetProfileService builds immutable quality analyses from in-memory
// row sets. Profiling is synchronous, single-pass, and pure: identical
// input yields a byte-identical analysis.
type DatasetProfileService interface {
	// Build profiles the dataset. Returns apperrors.ErrEmptyDataset when
	// rows is empty.
	Build(rows []models.Row) (*models.AnalysisRecord, error)
}

type datasetProfileService struct {
	logger *zap.Logger
}

// NewDatasetProfileService creates a new dataset profile service.
func NewDatasetProfileService(logger *zap.Logger) DatasetProfileService {
	return &datasetProfileService{logger: logger.Named("dataset-profile")}
}

var _ DatasetProfileService = (*datasetProfileService)(nil)

// Build orchestrates per-column profiling and dataset-wide metrics into one
// analysis record, and computes the composite quality score.
func (s *datasetProfileService) Build(rows []models.Row) (*models.AnalysisRecord, error) {
	if len(rows) == 0 {
		return nil, apperrors.ErrEmptyDataset
	}

	columns := ColumnNames(rows)

	record := &models.AnalysisRecord{
		RowCount:        len(rows),
		ColumnCount:     len(columns),
		Missingness:     Missingness(rows),
		Duplicates:      DuplicateCount(rows),
		TypeConsistency: TypeConsistency(rows),
		ColumnStats:     make(map[string]*models.ColumnProfile, len(columns)),
		Outliers:        make(map[string]models.OutlierSummary),
	}

	for _, col := range columns {
		values := columnValues(rows, col)
		profile := ProfileColumn(col, values)
		record.ColumnStats[col] = profile

		// Outlier detection applies to numeric columns only.
		if profile.Type == models.TypeNumber {
			record.Outliers[col] = DetectOutliers(rows, col)
		}
	}

	record.Score = qualityScore(record.Missingness, record.Duplicates, record.RowCount)

	s.logger.Debug("dataset profiled",
		zap.Int("rows", record.RowCount),
		zap.Int("columns", record.ColumnCount),
		zap.Int("duplicates", record.Duplicates),
		zap.Float64("score", record.Score))

	return record, nil
}

// qualityScore is the single source of truth for the composite score:
// round2(100 - avgMissingPercent - min(duplicates/rows*100, 30)). Consumers
// render it on a fixed 0-100 scale, so the formula must not change shape.
func qualityScore(missingness map[string]float64, duplicates, rowCount int) float64 {
	avgMissing := 0.0
	if len(missingness) > 0 {
		sum := 0.0
		for _, pct := range missingness {
			sum += pct
		}
		avgMissing = sum / float64(len(missingness))
	}

	duplicatePenalty := math.Min(float64(duplicates)/float64(rowCount)*100, duplicatePenaltyCap)

	return round2(100 - avgMissing - duplicatePenalty)
}

// columnValues extracts one column's values in row order; missing keys
// contribute nil.
func columnValues(rows []models.Row, column string) []any {
	values := make([]any, len(rows))
	for i, row := range rows {
		values[i] = row[column]
	}
	return values
}
