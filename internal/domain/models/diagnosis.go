package models

import "time"

// PredictorSource identifies one scoring source in the ensemble.
type PredictorSource string

const (
	SourceNeuralNet       PredictorSource = "neural_net"
	SourceGradientBoosted PredictorSource = "gradient_boosted"
	SourceRandomForest    PredictorSource = "random_forest"
	SourceFallback        PredictorSource = "fallback"
)

// FeatureVector is the canonical numeric representation of a CustomerRecord
// after encoding and scaling, ordered as the scaler was fitted.
type FeatureVector []float64

// PredictorResult is one predictor's output. Unavailable predictors still
// produce a result with Available=false; they are excluded from voting, not
// treated as zero.
type PredictorResult struct {
	Source      PredictorSource `json:"source"`
	Probability float64         `json:"probability"`
	Available   bool            `json:"available"`
}

// SourceWeight records one contributing source with its effective
// (renormalized) weight and the probability it produced.
type SourceWeight struct {
	Source      PredictorSource `json:"source"`
	Weight      float64         `json:"weight"`
	Probability float64         `json:"probability"`
}

// EnsembleScore is the combined churn probability. Degraded is true when the
// value rests on fewer than all primary predictors.
type EnsembleScore struct {
	Value    float64        `json:"value"`
	Sources  []SourceWeight `json:"sources"`
	Degraded bool           `json:"degraded"`
}

// Severity orders alert flags by urgency.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AlertFlag is a single early-warning rule hit, derived from raw record
// fields independently of any model score.
type AlertFlag struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

// RiskDiagnosis is the terminal artifact of one evaluation. Created per
// request and never mutated after construction.
type RiskDiagnosis struct {
	CustomerID  string        `json:"customer_id,omitempty"`
	Score       EnsembleScore `json:"score"`
	Tier        string        `json:"tier"`
	Action      string        `json:"action"`
	Alerts      []AlertFlag   `json:"alerts"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
}

// ModelStatus reports one predictor's load state and nominal weight.
type ModelStatus struct {
	Model     PredictorSource `json:"model"`
	Available bool            `json:"available"`
	Weight    float64         `json:"weight"`
}
