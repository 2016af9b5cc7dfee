package engine

import (
	"math"

	"NoChurn/internal/domain/models"
	"NoChurn/internal/domain/service"
)

type scoreFunc func(models.FeatureVector) (float64, error)

// Adapter wraps one trained model behind the uniform predictor contract.
// A nil score function marks the adapter permanently unavailable (artifact
// failed to load); per-call failures downgrade only that call.
type Adapter struct {
	source models.PredictorSource
	score  scoreFunc
}

// NewAdapter creates an adapter for the given source. Pass a nil score
// function when the backing artifact could not be loaded.
func NewAdapter(source models.PredictorSource, score scoreFunc) *Adapter {
	return &Adapter{source: source, score: score}
}

// NewNeuralNetAdapter wraps a loaded network, or an unavailable adapter
// when the artifact is nil.
func NewNeuralNetAdapter(nn *MLPArtifact) *Adapter {
	if nn == nil {
		return NewAdapter(models.SourceNeuralNet, nil)
	}
	return NewAdapter(models.SourceNeuralNet, func(fv models.FeatureVector) (float64, error) {
		return nn.Forward(fv)
	})
}

// NewGradientBoostedAdapter wraps a loaded boosted ensemble.
func NewGradientBoostedAdapter(gbt *GBTArtifact) *Adapter {
	if gbt == nil {
		return NewAdapter(models.SourceGradientBoosted, nil)
	}
	return NewAdapter(models.SourceGradientBoosted, func(fv models.FeatureVector) (float64, error) {
		return gbt.Score(fv)
	})
}

// NewRandomForestAdapter wraps a loaded bagged ensemble.
func NewRandomForestAdapter(rf *RFArtifact) *Adapter {
	if rf == nil {
		return NewAdapter(models.SourceRandomForest, nil)
	}
	return NewAdapter(models.SourceRandomForest, func(fv models.FeatureVector) (float64, error) {
		return rf.Score(fv)
	})
}

// Source identifies the wrapped model family.
func (a *Adapter) Source() models.PredictorSource { return a.source }

// Available reports whether the backing artifact loaded at startup.
func (a *Adapter) Available() bool { return a.score != nil }

// Predict scores one feature vector. Inference errors, NaN and panics are
// converted to an unavailable result for this call instead of propagating,
// so one bad predictor cannot abort the ensemble.
func (a *Adapter) Predict(fv models.FeatureVector) (res models.PredictorResult) {
	res = models.PredictorResult{Source: a.source}
	if a.score == nil {
		return res
	}

	defer func() {
		if recover() != nil {
			res = models.PredictorResult{Source: a.source}
		}
	}()

	p, err := a.score(fv)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return res
	}

	res.Probability = clamp01(p)
	res.Available = true
	return res
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var _ service.Predictor = (*Adapter)(nil)
