package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"NoChurn/internal/domain/models"
	"NoChurn/internal/domain/repository"
	"NoChurn/internal/services/engine"
	"NoChurn/pkg/cache"
	applogger "NoChurn/pkg/logger"
)

// RiskEvaluator drives the engine for single and batch evaluations and
// wires the surrounding concerns: memoization, persistence, metrics and
// alert dispatch. The engine itself stays pure.
type RiskEvaluator struct {
	engine  *engine.Engine
	metrics repository.Metrics
	logger  *applogger.Logger

	cache      cache.Service
	cacheTTL   time.Duration
	store      repository.DiagnosisStore
	dispatcher *AlertDispatcher
}

// EvaluatorOption configures optional collaborators.
type EvaluatorOption func(*RiskEvaluator)

// WithCache memoizes diagnoses by record content. Valid because evaluation
// is deterministic for a fixed artifact set.
func WithCache(c cache.Service, ttl time.Duration) EvaluatorOption {
	return func(e *RiskEvaluator) {
		e.cache = c
		e.cacheTTL = ttl
	}
}

// WithStore persists every diagnosis for segment analysis.
func WithStore(s repository.DiagnosisStore) EvaluatorOption {
	return func(e *RiskEvaluator) { e.store = s }
}

// WithDispatcher routes fired alerts to the configured sinks.
func WithDispatcher(d *AlertDispatcher) EvaluatorOption {
	return func(e *RiskEvaluator) { e.dispatcher = d }
}

// NewRiskEvaluator creates the evaluator and records initial model
// availability.
func NewRiskEvaluator(eng *engine.Engine, m repository.Metrics, l *applogger.Logger, opts ...EvaluatorOption) *RiskEvaluator {
	e := &RiskEvaluator{engine: eng, metrics: m, logger: l}
	for _, opt := range opts {
		opt(e)
	}
	for _, s := range eng.ModelStatus() {
		m.RecordModelAvailability(string(s.Model), s.Available)
	}
	return e
}

// Evaluate produces a diagnosis for one record.
func (e *RiskEvaluator) Evaluate(ctx context.Context, r *models.CustomerRecord) (*models.RiskDiagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := diagnosisKey(r)
	if e.cache != nil {
		var cached models.RiskDiagnosis
		if err := e.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	start := time.Now()
	d := e.engine.Evaluate(r)
	e.observe(d, time.Since(start))

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, d, e.cacheTTL); err != nil {
			e.metrics.RecordError("cache_set")
		}
	}
	if e.store != nil {
		if err := e.store.Store(ctx, d); err != nil {
			e.metrics.RecordError("store")
			e.logger.Warn("diagnosis store failed",
				applogger.String("customer_id", r.CustomerID),
				applogger.Error(err),
			)
		}
	}
	if e.dispatcher != nil {
		e.dispatcher.Offer(models.AlertEventsFrom(d)...)
	}

	return d, nil
}

// EvaluateBatch evaluates records independently and aggregates a summary
// for segment analysis. Stops early when the context is cancelled.
func (e *RiskEvaluator) EvaluateBatch(ctx context.Context, records []*models.CustomerRecord) (*models.BatchPredictResponse, error) {
	diagnoses := make([]*models.RiskDiagnosis, 0, len(records))
	summary := models.BatchSummary{TierCounts: make(map[string]int)}

	sum := 0.0
	for _, r := range records {
		d, err := e.Evaluate(ctx, r)
		if err != nil {
			return nil, err
		}
		diagnoses = append(diagnoses, d)

		sum += d.Score.Value
		summary.TierCounts[d.Tier]++
		summary.AlertsFired += len(d.Alerts)
		if d.Score.Degraded {
			summary.Degraded++
		}
	}

	summary.Total = len(diagnoses)
	if summary.Total > 0 {
		summary.MeanProbability = sum / float64(summary.Total)
	}

	return &models.BatchPredictResponse{Diagnoses: diagnoses, Summary: summary}, nil
}

// ModelStatus reports the ensemble composition.
func (e *RiskEvaluator) ModelStatus() []models.ModelStatus {
	return e.engine.ModelStatus()
}

// Degraded reports whether any predictor cannot contribute.
func (e *RiskEvaluator) Degraded() bool {
	return e.engine.Degraded()
}

func (e *RiskEvaluator) observe(d *models.RiskDiagnosis, elapsed time.Duration) {
	e.metrics.RecordEvaluation(d.Tier, d.Score.Degraded)
	e.metrics.RecordLatency(elapsed.Seconds())
	for _, s := range d.Score.Sources {
		if s.Source != models.SourceFallback {
			e.metrics.RecordModelProbability(string(s.Source), s.Probability)
		}
	}
	for _, a := range d.Alerts {
		e.metrics.RecordAlert(a.Rule, string(a.Severity))
	}
}

// diagnosisKey derives a stable cache key from the record content.
func diagnosisKey(r *models.CustomerRecord) string {
	b, _ := json.Marshal(r)
	sum := sha256.Sum256(b)
	return "diagnosis:" + hex.EncodeToString(sum[:16])
}
