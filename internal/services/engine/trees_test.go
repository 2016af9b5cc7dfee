package engine

import (
	"math"
	"testing"
)

// stumpTree splits on feature 0 at the threshold: left leaf lo, right leaf hi.
func stumpTree(threshold, lo, hi float64) Tree {
	return Tree{
		Feature:   []int{0, -1, -1},
		Threshold: []float64{threshold, 0, 0},
		Left:      []int{1, 0, 0},
		Right:     []int{2, 0, 0},
		Value:     []float64{0, lo, hi},
	}
}

func TestTreeEvalStump(t *testing.T) {
	tree := stumpTree(0.5, 0.1, 0.9)

	if got, err := tree.Eval([]float64{0.2}); err != nil || got != 0.1 {
		t.Fatalf("left branch = %v, %v; want 0.1", got, err)
	}
	if got, err := tree.Eval([]float64{0.5}); err != nil || got != 0.1 {
		t.Fatalf("boundary goes left = %v, %v; want 0.1", got, err)
	}
	if got, err := tree.Eval([]float64{0.7}); err != nil || got != 0.9 {
		t.Fatalf("right branch = %v, %v; want 0.9", got, err)
	}
}

func TestTreeEvalFeatureOutOfRange(t *testing.T) {
	tree := Tree{
		Feature:   []int{5, -1, -1},
		Threshold: []float64{0, 0, 0},
		Left:      []int{1, 0, 0},
		Right:     []int{2, 0, 0},
		Value:     []float64{0, 0, 0},
	}
	if _, err := tree.Eval([]float64{1}); err == nil {
		t.Fatal("expected out-of-range feature error")
	}
}

func TestTreeEvalDetectsCycle(t *testing.T) {
	tree := Tree{
		Feature:   []int{0, 0},
		Threshold: []float64{0.5, 0.5},
		Left:      []int{1, 0},
		Right:     []int{1, 0},
		Value:     []float64{0, 0},
	}
	if _, err := tree.Eval([]float64{0.1}); err == nil {
		t.Fatal("expected cycle error")
	}
}

func TestTreeEvalInconsistentArrays(t *testing.T) {
	tree := Tree{Feature: []int{-1}, Threshold: nil, Left: nil, Right: nil, Value: []float64{0.5}}
	if _, err := tree.Eval([]float64{0}); err == nil {
		t.Fatal("expected inconsistency error")
	}
}

func TestGBTScore(t *testing.T) {
	g := &GBTArtifact{
		InitScore:    -0.5,
		LearningRate: 0.1,
		Trees: []Tree{
			stumpTree(0.5, -1, 2),
			stumpTree(0.5, 1, 3),
		},
	}

	// fv below threshold: raw = -0.5 + 0.1*(-1) + 0.1*1 = -0.5
	got, err := g.Score([]float64{0.2})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	want := 1 / (1 + math.Exp(0.5))
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("Score = %v, want %v", got, want)
	}
}

func TestRFScoreAverages(t *testing.T) {
	f := &RFArtifact{Trees: []Tree{
		stumpTree(0.5, 0.2, 0.8),
		stumpTree(0.5, 0.4, 0.6),
	}}

	got, err := f.Score([]float64{0.9})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("Score = %v, want 0.7", got)
	}
}

func TestRFScoreEmptyForest(t *testing.T) {
	f := &RFArtifact{}
	if _, err := f.Score([]float64{0}); err == nil {
		t.Fatal("expected error for empty forest")
	}
}
