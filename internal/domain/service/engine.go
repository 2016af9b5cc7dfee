package service

import "NoChurn/internal/domain/models"

// Normalizer maps a raw record into the canonical feature vector the
// predictors were trained on.
type Normalizer interface {
	Normalize(r *models.CustomerRecord) (models.FeatureVector, error)
}

// Predictor wraps one trained model behind a uniform scoring contract.
// Implementations report unavailability instead of raising.
type Predictor interface {
	Source() models.PredictorSource
	Available() bool
	Predict(fv models.FeatureVector) models.PredictorResult
}

// FallbackScorer computes a heuristic churn score from raw business signals
// with no dependency on trained artifacts.
type FallbackScorer interface {
	Score(r *models.CustomerRecord) float64
}

// AlertEvaluator applies independent business rules to the raw record.
type AlertEvaluator interface {
	Evaluate(r *models.CustomerRecord) []models.AlertFlag
}

// RiskClassifier maps a final score into an ordered tier with its
// recommended action.
type RiskClassifier interface {
	Classify(score float64) (tier, action string)
}
