package engine

import (
	"time"

	"NoChurn/internal/domain/models"
	"NoChurn/internal/domain/service"
	"NoChurn/pkg/config"
	applogger "NoChurn/pkg/logger"
)

// Engine is the hybrid inference pipeline: normalize, score with every
// adapter, combine, classify, and evaluate early alerts in parallel with
// the model path. Stateless beyond the read-only artifacts, so evaluations
// are safe to run concurrently.
type Engine struct {
	normalizer service.Normalizer
	predictors []service.Predictor
	fallback   service.FallbackScorer
	alerts     service.AlertEvaluator
	classifier service.RiskClassifier
	voter      *Voter
}

// New assembles the engine from loaded artifacts and configuration. A
// missing scaler leaves all model adapters effectively unavailable; the
// fallback scorer then carries every evaluation.
func New(artifacts *Artifacts, cfg *config.Config, l *applogger.Logger) *Engine {
	var normalizer service.Normalizer
	if n, err := NewNormalizer(artifacts.Scaler, artifacts.Encoders); err != nil {
		l.Warn("feature normalizer unavailable, predictors disabled", applogger.Error(err))
	} else {
		normalizer = n
	}

	predictors := []service.Predictor{
		NewNeuralNetAdapter(artifacts.NeuralNet),
		NewGradientBoostedAdapter(artifacts.GradientBoosted),
		NewRandomForestAdapter(artifacts.RandomForest),
	}
	for _, p := range predictors {
		l.Info("predictor registered",
			applogger.String("model", string(p.Source())),
			applogger.Bool("available", normalizer != nil && p.Available()),
		)
	}

	return &Engine{
		normalizer: normalizer,
		predictors: predictors,
		fallback:   NewRuleScorer(cfg.Fallback.Rules, cfg.Fallback.Scale, cfg.Fallback.Cap),
		alerts:     NewEarlyAlertEvaluator(),
		classifier: NewTierClassifier(cfg.Tiers),
		voter: NewVoter(
			cfg.Ensemble.NeuralNetWeight,
			cfg.Ensemble.GradientBoosWeight,
			cfg.Ensemble.RandomForestWeight,
		),
	}
}

// Evaluate produces the full diagnosis for one record. Always returns a
// result for a valid record, even in total model absence.
func (e *Engine) Evaluate(r *models.CustomerRecord) *models.RiskDiagnosis {
	results := make([]models.PredictorResult, 0, len(e.predictors))
	if e.normalizer != nil {
		if fv, err := e.normalizer.Normalize(r); err == nil {
			for _, p := range e.predictors {
				results = append(results, p.Predict(fv))
			}
		}
	}

	score := e.voter.Combine(results, e.fallback.Score(r))
	tier, action := e.classifier.Classify(score.Value)

	return &models.RiskDiagnosis{
		CustomerID:  r.CustomerID,
		Score:       score,
		Tier:        tier,
		Action:      action,
		Alerts:      e.alerts.Evaluate(r),
		EvaluatedAt: time.Now().UTC(),
	}
}

// ModelStatus reports each adapter's availability with its nominal weight.
func (e *Engine) ModelStatus() []models.ModelStatus {
	statuses := make([]models.ModelStatus, 0, len(e.predictors))
	for _, p := range e.predictors {
		statuses = append(statuses, models.ModelStatus{
			Model:     p.Source(),
			Available: e.normalizer != nil && p.Available(),
			Weight:    e.voter.Weight(p.Source()),
		})
	}
	return statuses
}

// Degraded reports whether any adapter is unable to contribute.
func (e *Engine) Degraded() bool {
	for _, s := range e.ModelStatus() {
		if !s.Available {
			return true
		}
	}
	return false
}
