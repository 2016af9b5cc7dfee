package repository

import (
	"context"
	"time"

	"NoChurn/internal/domain/models"
)

// DiagnosisStore persists completed evaluations for segment analysis and
// high-risk export.
type DiagnosisStore interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, d *models.RiskDiagnosis) error
	StoreBatch(ctx context.Context, ds []*models.RiskDiagnosis) error
	QueryHighRisk(ctx context.Context, minScore float64, since time.Time, limit int) ([]*models.RiskDiagnosis, error)
	TierCounts(ctx context.Context, since time.Time) (map[string]int64, error)
	Health(ctx context.Context) error
}

// AlertPublisher delivers alert events to the message broker.
type AlertPublisher interface {
	Publish(ctx context.Context, e *models.AlertEvent) error
	PublishBatch(ctx context.Context, events []*models.AlertEvent) error
	Close() error
}

// Notifier pushes alert events to an external system (CRM webhook).
type Notifier interface {
	Notify(ctx context.Context, events []*models.AlertEvent) error
}

// Metrics records engine observability signals.
type Metrics interface {
	RecordEvaluation(tier string, degraded bool)
	RecordError(kind string)
	RecordAlert(rule, severity string)
	RecordModelAvailability(model string, available bool)
	RecordModelProbability(model string, p float64)
	RecordLatency(seconds float64)
}
