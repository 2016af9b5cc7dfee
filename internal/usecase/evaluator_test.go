package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"NoChurn/internal/domain/models"
	"NoChurn/internal/services/engine"
	"NoChurn/pkg/cache"
	"NoChurn/pkg/config"
	applogger "NoChurn/pkg/logger"
)

type fakeMetrics struct {
	mu          sync.Mutex
	evaluations int
	degraded    int
	alerts      int
	errors      map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{errors: make(map[string]int)}
}

func (m *fakeMetrics) RecordEvaluation(tier string, degraded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluations++
	if degraded {
		m.degraded++
	}
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordAlert(rule, severity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts++
}

func (m *fakeMetrics) RecordModelAvailability(string, bool)   {}
func (m *fakeMetrics) RecordModelProbability(string, float64) {}
func (m *fakeMetrics) RecordLatency(float64)                  {}

type fakeStore struct {
	mu     sync.Mutex
	stored []*models.RiskDiagnosis
}

func (s *fakeStore) Init(context.Context) error { return nil }

func (s *fakeStore) Store(_ context.Context, d *models.RiskDiagnosis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, d)
	return nil
}

func (s *fakeStore) StoreBatch(ctx context.Context, ds []*models.RiskDiagnosis) error {
	for _, d := range ds {
		if err := s.Store(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) QueryHighRisk(context.Context, float64, time.Time, int) ([]*models.RiskDiagnosis, error) {
	return nil, nil
}

func (s *fakeStore) TierCounts(context.Context, time.Time) (map[string]int64, error) {
	return nil, nil
}

func (s *fakeStore) Health(context.Context) error { return nil }

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stored)
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := &config.Config{}
	cfg.Ensemble.NeuralNetWeight = 0.40
	cfg.Ensemble.GradientBoosWeight = 0.35
	cfg.Ensemble.RandomForestWeight = 0.25
	cfg.Fallback.Scale = 1.8
	cfg.Fallback.Cap = 0.95
	cfg.Fallback.Rules = config.DefaultFallbackRules()
	cfg.Tiers = config.DefaultTiers()
	return engine.New(&engine.Artifacts{}, cfg, quietLogger(t))
}

func quietLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func calmRecord() *models.CustomerRecord {
	return &models.CustomerRecord{
		CustomerID:               "c-100",
		CreditScore:              700,
		Geography:                "France",
		Gender:                   "Male",
		Age:                      35,
		NumOfProducts:            1,
		IsActiveMember:           true,
		SatisfactionScore:        5,
		MonthlyTransactions:      60,
		DaysSinceLastTransaction: 3,
		MonthlyLogins:            15,
		AvgSessionDuration:       12,
	}
}

func riskyRecord() *models.CustomerRecord {
	r := calmRecord()
	r.CustomerID = "c-200"
	r.Complain = true
	r.IsActiveMember = false
	r.DaysSinceLastTransaction = 40
	r.MonthlyLogins = 1
	r.SatisfactionScore = 1
	return r
}

func TestEvaluateRecordsMetricsAndStores(t *testing.T) {
	m := newFakeMetrics()
	store := &fakeStore{}
	ev := NewRiskEvaluator(testEngine(t), m, quietLogger(t), WithStore(store))

	d, err := ev.Evaluate(context.Background(), riskyRecord())
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if d.CustomerID != "c-200" {
		t.Fatalf("customer id = %q", d.CustomerID)
	}
	if !d.Score.Degraded {
		t.Fatal("no artifacts loaded, evaluation must be degraded")
	}
	if m.evaluations != 1 || m.degraded != 1 {
		t.Fatalf("metrics = %d/%d, want 1/1", m.evaluations, m.degraded)
	}
	if m.alerts == 0 {
		t.Fatal("risky record fired no alert metrics")
	}
	if store.count() != 1 {
		t.Fatalf("store count = %d, want 1", store.count())
	}
}

func TestEvaluateCacheHitSkipsEngine(t *testing.T) {
	m := newFakeMetrics()
	store := &fakeStore{}
	c := cache.NewMemory(time.Minute)
	defer c.Close()

	ev := NewRiskEvaluator(testEngine(t), m, quietLogger(t),
		WithStore(store),
		WithCache(c, time.Minute),
	)

	r := calmRecord()
	first, err := ev.Evaluate(context.Background(), r)
	if err != nil {
		t.Fatalf("first Evaluate: %v", err)
	}
	second, err := ev.Evaluate(context.Background(), r)
	if err != nil {
		t.Fatalf("second Evaluate: %v", err)
	}

	if m.evaluations != 1 {
		t.Fatalf("evaluations = %d, want 1 (second call cached)", m.evaluations)
	}
	if store.count() != 1 {
		t.Fatalf("store count = %d, want 1", store.count())
	}
	if first.Score.Value != second.Score.Value || first.Tier != second.Tier {
		t.Fatalf("cached diagnosis differs: %+v vs %+v", first, second)
	}
}

func TestEvaluateCancelledContext(t *testing.T) {
	ev := NewRiskEvaluator(testEngine(t), newFakeMetrics(), quietLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ev.Evaluate(ctx, calmRecord()); err == nil {
		t.Fatal("expected context error")
	}
}

func TestEvaluateBatchSummary(t *testing.T) {
	ev := NewRiskEvaluator(testEngine(t), newFakeMetrics(), quietLogger(t))

	res, err := ev.EvaluateBatch(context.Background(), []*models.CustomerRecord{
		calmRecord(),
		riskyRecord(),
	})
	if err != nil {
		t.Fatalf("EvaluateBatch: %v", err)
	}
	if res.Summary.Total != 2 || len(res.Diagnoses) != 2 {
		t.Fatalf("total = %d, diagnoses = %d", res.Summary.Total, len(res.Diagnoses))
	}
	if res.Summary.Degraded != 2 {
		t.Fatalf("degraded = %d, want 2 with no artifacts", res.Summary.Degraded)
	}
	if res.Summary.TierCounts["low"] != 1 {
		t.Fatalf("tier counts = %v, want one low", res.Summary.TierCounts)
	}
	if res.Summary.AlertsFired == 0 {
		t.Fatal("risky record fired no alerts in summary")
	}

	want := (res.Diagnoses[0].Score.Value + res.Diagnoses[1].Score.Value) / 2
	if res.Summary.MeanProbability != want {
		t.Fatalf("mean = %v, want %v", res.Summary.MeanProbability, want)
	}
}

func TestEvaluateDispatchesAlerts(t *testing.T) {
	var (
		mu     sync.Mutex
		events []*models.AlertEvent
	)
	d := NewAlertDispatcher(quietLogger(t), time.Hour, 1000,
		WithBroadcast(func(e *models.AlertEvent) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		}),
	)

	ev := NewRiskEvaluator(testEngine(t), newFakeMetrics(), quietLogger(t), WithDispatcher(d))
	if _, err := ev.Evaluate(context.Background(), riskyRecord()); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) == 0 {
		t.Fatal("no alert events reached the broadcast sink")
	}
	if events[0].CustomerID != "c-200" {
		t.Fatalf("event customer = %q", events[0].CustomerID)
	}
}
