package engine

import (
	"NoChurn/internal/domain/models"
)

// Voter combines available predictor outputs using nominal weights,
// renormalized over the subset that actually produced a result. When no
// predictor contributed, the fallback score stands alone.
type Voter struct {
	weights map[models.PredictorSource]float64
	nominal int
}

// NewVoter creates a voter with the nominal per-source weights.
func NewVoter(neuralNet, gradientBoosted, randomForest float64) *Voter {
	return &Voter{
		weights: map[models.PredictorSource]float64{
			models.SourceNeuralNet:       neuralNet,
			models.SourceGradientBoosted: gradientBoosted,
			models.SourceRandomForest:    randomForest,
		},
		nominal: 3,
	}
}

// Weight returns the nominal weight for a source.
func (v *Voter) Weight(source models.PredictorSource) float64 {
	return v.weights[source]
}

// Combine selects the available results, renormalizes their weights to sum
// to 1 and computes the weighted sum. Degraded is true whenever fewer than
// all primary predictors contributed. A zero available weight sum falls
// back to the rule-based score.
func (v *Voter) Combine(results []models.PredictorResult, fallback float64) models.EnsembleScore {
	available := make([]models.PredictorResult, 0, len(results))
	total := 0.0
	for _, r := range results {
		if !r.Available {
			continue
		}
		available = append(available, r)
		total += v.weights[r.Source]
	}

	if len(available) == 0 || total <= 0 {
		return models.EnsembleScore{
			Value:    clamp01(fallback),
			Sources:  []models.SourceWeight{{Source: models.SourceFallback, Weight: 1, Probability: clamp01(fallback)}},
			Degraded: true,
		}
	}

	sources := make([]models.SourceWeight, 0, len(available))
	value := 0.0
	for _, r := range available {
		w := v.weights[r.Source] / total
		value += w * r.Probability
		sources = append(sources, models.SourceWeight{
			Source:      r.Source,
			Weight:      w,
			Probability: r.Probability,
		})
	}

	return models.EnsembleScore{
		Value:    clamp01(value),
		Sources:  sources,
		Degraded: len(available) < v.nominal,
	}
}
