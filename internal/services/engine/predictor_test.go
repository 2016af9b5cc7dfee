package engine

import (
	"fmt"
	"testing"

	"NoChurn/internal/domain/models"
)

func TestAdapterUnavailableWithoutArtifact(t *testing.T) {
	a := NewNeuralNetAdapter(nil)
	if a.Available() {
		t.Fatal("nil artifact must leave the adapter unavailable")
	}
	res := a.Predict(models.FeatureVector{1, 2})
	if res.Available {
		t.Fatal("unavailable adapter produced an available result")
	}
	if res.Source != models.SourceNeuralNet {
		t.Fatalf("source = %q, want neural_net", res.Source)
	}
}

func TestAdapterConvertsErrorToUnavailable(t *testing.T) {
	a := NewAdapter(models.SourceRandomForest, func(models.FeatureVector) (float64, error) {
		return 0, fmt.Errorf("shape mismatch")
	})
	if !a.Available() {
		t.Fatal("adapter with a score function must report available")
	}
	if res := a.Predict(nil); res.Available {
		t.Fatal("scoring error must downgrade the call")
	}
}

func TestAdapterConvertsNaNToUnavailable(t *testing.T) {
	nan := 0.0
	a := NewAdapter(models.SourceGradientBoosted, func(models.FeatureVector) (float64, error) {
		return nan / nan, nil
	})
	if res := a.Predict(nil); res.Available {
		t.Fatal("NaN output must downgrade the call")
	}
}

func TestAdapterRecoversPanic(t *testing.T) {
	a := NewAdapter(models.SourceNeuralNet, func(models.FeatureVector) (float64, error) {
		panic("index out of range")
	})
	res := a.Predict(nil)
	if res.Available {
		t.Fatal("panic must downgrade the call, not propagate")
	}
}

func TestAdapterClampsOutput(t *testing.T) {
	a := NewAdapter(models.SourceNeuralNet, func(models.FeatureVector) (float64, error) {
		return 1.3, nil
	})
	res := a.Predict(nil)
	if !res.Available || res.Probability != 1 {
		t.Fatalf("result = %+v, want available with probability clamped to 1", res)
	}

	a = NewAdapter(models.SourceNeuralNet, func(models.FeatureVector) (float64, error) {
		return -0.2, nil
	})
	res = a.Predict(nil)
	if !res.Available || res.Probability != 0 {
		t.Fatalf("result = %+v, want available with probability clamped to 0", res)
	}
}
