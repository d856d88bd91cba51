package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/veridata/veridata-engine/pkg/apperrors"
	"github.com/veridata/veridata-engine/pkg/audit"
	"github.com/veridata/veridata-engine/pkg/llm"
	"github.com/veridata/veridata-engine/pkg/models"
	"github.com/veridata/veridata-engine/pkg/prompts"
)

// pipelineState tracks where one insight request is in its lifecycle. It is
// carried in log fields only; the request loop drives the transitions.
type pipelineState string

const (
	stateInitial    pipelineState = "initial"
	stateValidating pipelineState = "validating"
	stateRetrying   pipelineState = "retrying"
	stateSucceeded  pipelineState = "succeeded"
	stateExhausted  pipelineState = "exhausted"
)

// Default pipeline bounds.
const (
	defaultMaxAttempts = 3
	defaultSampleLimit = 20
)

// InsightService generates validated insight records from dataset analyses,
// retrying with corrective prompts on schema violations and caching the
// results by analysis fingerprint.
type InsightService interface {
	// GetInsights returns an insight result for the analysis. Transport
	// errors from the model abort immediately; validation failures retry up
	// to the attempt budget and then yield a best-effort raw-text result
	// with failureReason set, which is never cached.
	GetInsights(ctx context.Context, analysis *models.AnalysisRecord, sample []models.Row, column string) (*models.InsightResult, error)
}

// InsightOptions tunes the pipeline; zero values take the defaults.
type InsightOptions struct {
	MaxAttempts int
	SampleLimit int
}

type insightService struct {
	client      llm.ModelClient
	cache       *InsightCache
	auditor     *audit.ValidationAuditor
	maxAttempts int
	sampleLimit int
	logger      *zap.Logger
}

// NewInsightService creates a new insight service. A nil client is allowed;
// requests then fail with apperrors.ErrMissingAPIKey.
func NewInsightService(client llm.ModelClient, cache *InsightCache, auditor *audit.ValidationAuditor, opts InsightOptions, logger *zap.Logger) InsightService {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.SampleLimit <= 0 {
		opts.SampleLimit = defaultSampleLimit
	}
	return &insightService{
		client:      client,
		cache:       cache,
		auditor:     auditor,
		maxAttempts: opts.MaxAttempts,
		sampleLimit: opts.SampleLimit,
		logger:      logger.Named("insights"),
	}
}

var _ InsightService = (*insightService)(nil)

func (s *insightService) GetInsights(ctx context.Context, analysis *models.AnalysisRecord, sample []models.Row, column string) (*models.InsightResult, error) {
	if s.client == nil {
		return nil, apperrors.ErrMissingAPIKey
	}

	if len(sample) > s.sampleLimit {
		sample = sample[:s.sampleLimit]
	}

	fingerprint, err := Fingerprint(analysis, column, len(sample))
	if err != nil {
		return nil, fmt.Errorf("fingerprint analysis: %w", err)
	}

	log := s.logger.With(zap.String("fingerprint", fingerprint), zap.String("column", column))

	if stored, ok := s.cache.Get(fingerprint); ok {
		log.Debug("insight cache hit")
		// Shallow copy so the Cached flag never leaks into the stored entry.
		hit := *stored
		hit.Cached = true
		return &hit, nil
	}

	state := stateInitial
	lastRaw := ""

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		var prompt string
		if state == stateRetrying {
			prompt = prompts.BuildCorrectivePrompt(lastRaw, analysis, sample, column)
		} else {
			prompt = prompts.BuildInsightPrompt(analysis, sample, column)
		}

		raw, err := s.client.Complete(ctx, prompt, prompts.BuildInsightSystemMessage())
		if err != nil {
			// Transport failures are terminal; only schema violations retry.
			log.Error("model request failed",
				zap.String("state", string(state)),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return nil, fmt.Errorf("model request: %w", err)
		}
		lastRaw = raw

		state = stateValidating
		result := ValidateInsightResponse(raw)
		if result.Valid {
			state = stateSucceeded
			success := &models.InsightResult{
				Record:   result.Record,
				RawText:  raw,
				Attempts: attempt,
			}
			s.cache.Put(fingerprint, success)
			log.Info("insight generated",
				zap.String("state", string(state)),
				zap.Int("attempts", attempt))
			return success, nil
		}

		s.auditor.RecordFailure(fingerprint, attempt, result.Reason, raw)
		state = stateRetrying
		log.Warn("insight validation failed",
			zap.String("state", string(state)),
			zap.Int("attempt", attempt),
			zap.String("reason", result.Reason))
	}

	state = stateExhausted
	s.auditor.RecordFailure(fingerprint, s.maxAttempts, ReasonFinalFailed, lastRaw)
	log.Warn("insight attempts exhausted",
		zap.String("state", string(state)),
		zap.Int("attempts", s.maxAttempts))

	// Best-effort degraded result: raw text only, never cached.
	return &models.InsightResult{
		RawText:       lastRaw,
		Attempts:      s.maxAttempts,
		FailureReason: ReasonFinalFailed,
	}, nil
}

// Fingerprint derives the cache key for one insight request: the SHA-256 of
// the serialized analysis, the focus column, and the sample size, joined by
// NUL separators so field boundaries cannot collide.
func Fingerprint(analysis *models.AnalysisRecord, column string, sampleSize int) (string, error) {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	h.Write(analysisJSON)
	h.Write([]byte{0})
	h.Write([]byte(column))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(sampleSize)))
	return hex.EncodeToString(h.Sum(nil)), nil
}
