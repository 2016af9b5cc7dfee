package engine

import (
	"math"
	"testing"
)

func testScaler() *ScalerArtifact {
	return &ScalerArtifact{
		Features: []string{"age", "geography", "balance"},
		Mean:     []float64{30, 0, 1000},
		Scale:    []float64{10, 1, 500},
		Median:   []float64{35, 0, 1200},
	}
}

func testEncoders() EncoderArtifact {
	return EncoderArtifact{
		"geography": {"France", "Spain", "Germany"},
	}
}

func TestNormalizerScalesInFittedOrder(t *testing.T) {
	n, err := NewNormalizer(testScaler(), testEncoders())
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	r := baselineRecord()
	r.Age = 40
	r.Geography = "Spain"
	r.Balance = 1500

	fv, err := n.Normalize(r)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []float64{1, 1, 1}
	for i := range want {
		if math.Abs(fv[i]-want[i]) > 1e-9 {
			t.Errorf("fv[%d] = %v, want %v", i, fv[i], want[i])
		}
	}
}

func TestNormalizerUnknownCategoryBucket(t *testing.T) {
	n, _ := NewNormalizer(testScaler(), testEncoders())

	r := baselineRecord()
	r.Geography = "Atlantis"

	fv, err := n.Normalize(r)
	if err != nil {
		t.Fatalf("unknown geography must not fail: %v", err)
	}
	// Unknown level encodes to len(classes) = 3.
	if math.Abs(fv[1]-3) > 1e-9 {
		t.Fatalf("fv[1] = %v, want 3", fv[1])
	}
}

func TestNormalizerCaseInsensitiveEncoding(t *testing.T) {
	n, _ := NewNormalizer(testScaler(), testEncoders())

	r := baselineRecord()
	r.Geography = "germany"

	fv, err := n.Normalize(r)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if math.Abs(fv[1]-2) > 1e-9 {
		t.Fatalf("fv[1] = %v, want 2", fv[1])
	}
}

func TestNormalizerImputesMedian(t *testing.T) {
	n, _ := NewNormalizer(testScaler(), testEncoders())

	r := baselineRecord()
	r.Age = math.NaN()

	fv, err := n.Normalize(r)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := (35.0 - 30.0) / 10.0
	if math.Abs(fv[0]-want) > 1e-9 {
		t.Fatalf("fv[0] = %v, want median-imputed %v", fv[0], want)
	}
}

func TestNormalizerZeroScaleGuard(t *testing.T) {
	s := testScaler()
	s.Scale[0] = 0
	n, _ := NewNormalizer(s, testEncoders())

	r := baselineRecord()
	r.Age = 42

	fv, err := n.Normalize(r)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if math.IsInf(fv[0], 0) || math.IsNaN(fv[0]) {
		t.Fatalf("fv[0] = %v, zero scale must not divide", fv[0])
	}
}

func TestNormalizerUnknownFeatureFails(t *testing.T) {
	s := testScaler()
	s.Features[2] = "not_a_signal"
	n, _ := NewNormalizer(s, testEncoders())

	if _, err := n.Normalize(baselineRecord()); err == nil {
		t.Fatal("expected error for unmapped feature")
	}
}

func TestNormalizerRequiresScaler(t *testing.T) {
	if _, err := NewNormalizer(nil, testEncoders()); err == nil {
		t.Fatal("expected error for nil scaler")
	}
}

func TestNormalizerRejectsLengthMismatch(t *testing.T) {
	s := testScaler()
	s.Mean = s.Mean[:2]
	if _, err := NewNormalizer(s, nil); err == nil {
		t.Fatal("expected error for mean length mismatch")
	}
}
