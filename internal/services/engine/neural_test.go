package engine

import (
	"math"
	"testing"
)

func TestMLPForwardHandComputed(t *testing.T) {
	// Two inputs, one relu hidden unit, one sigmoid output.
	m := &MLPArtifact{Layers: []MLPLayer{
		{
			Weights:    [][]float64{{1.0}, {-2.0}},
			Biases:     []float64{0.5},
			Activation: "relu",
		},
		{
			Weights:    [][]float64{{2.0}},
			Biases:     []float64{-1.0},
			Activation: "sigmoid",
		},
	}}

	// Hidden: relu(1*1 + (-2)*0.25 + 0.5) = 1.0; output: sigmoid(2*1 - 1).
	got, err := m.Forward([]float64{1, 0.25})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	want := 1 / (1 + math.Exp(-1.0))
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Forward = %v, want %v", got, want)
	}
}

func TestMLPForwardReluClampsNegative(t *testing.T) {
	m := &MLPArtifact{Layers: []MLPLayer{
		{Weights: [][]float64{{1.0}}, Biases: []float64{0}, Activation: "relu"},
		{Weights: [][]float64{{1.0}}, Biases: []float64{0}, Activation: "sigmoid"},
	}}

	got, err := m.Forward([]float64{-5})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if got != 0.5 {
		t.Fatalf("Forward = %v, want 0.5 (relu clamps to 0)", got)
	}
}

func TestMLPForwardShapeMismatch(t *testing.T) {
	m := &MLPArtifact{Layers: []MLPLayer{
		{Weights: [][]float64{{1.0}}, Biases: []float64{0}, Activation: "sigmoid"},
	}}
	if _, err := m.Forward([]float64{1, 2}); err == nil {
		t.Fatal("expected shape mismatch error")
	}
}

func TestMLPForwardMultiOutputRejected(t *testing.T) {
	m := &MLPArtifact{Layers: []MLPLayer{
		{Weights: [][]float64{{1.0, 1.0}}, Biases: []float64{0, 0}, Activation: "sigmoid"},
	}}
	if _, err := m.Forward([]float64{1}); err == nil {
		t.Fatal("expected error for multi-unit output")
	}
}
