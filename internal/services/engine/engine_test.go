package engine

import (
	"math"
	"testing"

	"NoChurn/pkg/config"
	applogger "NoChurn/pkg/logger"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Ensemble.NeuralNetWeight = 0.40
	cfg.Ensemble.GradientBoosWeight = 0.35
	cfg.Ensemble.RandomForestWeight = 0.25
	cfg.Fallback.Scale = 1.8
	cfg.Fallback.Cap = 0.95
	cfg.Fallback.Rules = config.DefaultFallbackRules()
	cfg.Tiers = config.DefaultTiers()
	return cfg
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// constantNet always outputs sigmoid(0) = 0.5 for the test scaler's three
// features.
func constantNet() *MLPArtifact {
	return &MLPArtifact{Layers: []MLPLayer{
		{
			Weights:    [][]float64{{0}, {0}, {0}},
			Biases:     []float64{0},
			Activation: "sigmoid",
		},
	}}
}

func TestEngineTotalModelAbsenceUsesFallback(t *testing.T) {
	e := New(&Artifacts{}, testConfig(), testLogger(t))

	r := baselineRecord()
	r.Complain = true
	r.IsActiveMember = false
	r.DaysSinceLastTransaction = 40

	d := e.Evaluate(r)
	want := 0.85 / 1.8
	if math.Abs(d.Score.Value-want) > 1e-9 {
		t.Fatalf("score = %v, want fallback %v", d.Score.Value, want)
	}
	if !d.Score.Degraded {
		t.Fatal("fallback-only evaluation must be degraded")
	}
	if d.Tier != "medium" {
		t.Fatalf("tier = %q, want medium for score %v", d.Tier, d.Score.Value)
	}

	sawHigh := false
	for _, f := range d.Alerts {
		if f.Severity == "high" {
			sawHigh = true
		}
	}
	if !sawHigh {
		t.Fatalf("alerts = %+v, want at least one high-severity flag", d.Alerts)
	}
}

func TestEngineDeterministic(t *testing.T) {
	e := New(&Artifacts{
		Scaler:    testScaler(),
		Encoders:  testEncoders(),
		NeuralNet: constantNet(),
	}, testConfig(), testLogger(t))

	r := baselineRecord()
	r.SatisfactionScore = 2

	a := e.Evaluate(r)
	b := e.Evaluate(r)
	if a.Score.Value != b.Score.Value || a.Tier != b.Tier || len(a.Alerts) != len(b.Alerts) {
		t.Fatalf("identical records diverged: %+v vs %+v", a, b)
	}
}

func TestEngineUnseenGeographyCompletes(t *testing.T) {
	e := New(&Artifacts{
		Scaler:    testScaler(),
		Encoders:  testEncoders(),
		NeuralNet: constantNet(),
	}, testConfig(), testLogger(t))

	r := baselineRecord()
	r.Geography = "Narnia"

	d := e.Evaluate(r)
	// Only the network is loaded; its renormalized weight is 1.
	if d.Score.Value != 0.5 {
		t.Fatalf("score = %v, want 0.5 from the single predictor", d.Score.Value)
	}
	if !d.Score.Degraded {
		t.Fatal("two of three predictors missing must mark the score degraded")
	}
}

func TestEngineAlertsUnaffectedByModelAvailability(t *testing.T) {
	cfg := testConfig()
	withModels := New(&Artifacts{
		Scaler:    testScaler(),
		Encoders:  testEncoders(),
		NeuralNet: constantNet(),
	}, cfg, testLogger(t))
	withoutModels := New(&Artifacts{}, cfg, testLogger(t))

	r := baselineRecord()
	r.Complain = true
	r.DaysSinceLastTransaction = 30
	r.SatisfactionScore = 1

	a := withModels.Evaluate(r).Alerts
	b := withoutModels.Evaluate(r).Alerts
	if len(a) != len(b) {
		t.Fatalf("alert sets differ with model availability: %+v vs %+v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("alert %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEngineModelStatus(t *testing.T) {
	e := New(&Artifacts{
		Scaler:    testScaler(),
		Encoders:  testEncoders(),
		NeuralNet: constantNet(),
	}, testConfig(), testLogger(t))

	statuses := e.ModelStatus()
	if len(statuses) != 3 {
		t.Fatalf("got %d statuses, want 3", len(statuses))
	}
	byModel := make(map[string]bool, 3)
	for _, s := range statuses {
		byModel[string(s.Model)] = s.Available
	}
	if !byModel["neural_net"] || byModel["gradient_boosted"] || byModel["random_forest"] {
		t.Fatalf("availability = %v", byModel)
	}
	if !e.Degraded() {
		t.Fatal("engine with missing predictors must report degraded")
	}
}

func TestEngineScoreAlwaysInUnitInterval(t *testing.T) {
	e := New(&Artifacts{}, testConfig(), testLogger(t))

	r := baselineRecord()
	r.Complain = true
	r.IsActiveMember = false
	r.NumOfProducts = 4
	r.DaysSinceLastTransaction = 90
	r.MonthlyLogins = 0
	r.SatisfactionScore = 1
	r.Geography = "Germany"
	r.Age = 70
	r.MonthlyTransactions = 0
	r.SupportInteractions = 12

	d := e.Evaluate(r)
	if d.Score.Value < 0 || d.Score.Value > 1 {
		t.Fatalf("score %v out of [0,1]", d.Score.Value)
	}
	if d.Tier != "critical" {
		t.Fatalf("tier = %q, want critical for capped score", d.Tier)
	}
}
