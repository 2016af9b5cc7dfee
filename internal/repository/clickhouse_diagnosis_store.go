package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"NoChurn/internal/domain/models"
	domrepo "NoChurn/internal/domain/repository"
)

// ClickHouseDiagnosisStore persists diagnoses in ClickHouse for segment
// analysis and high-risk export queries.
type ClickHouseDiagnosisStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseDiagnosisStore creates the store over an existing pool. The
// table name must be fully qualified (database.table).
func NewClickHouseDiagnosisStore(db *sql.DB, table string) *ClickHouseDiagnosisStore {
	return &ClickHouseDiagnosisStore{db: db, table: table}
}

// Init ensures the diagnosis table exists.
func (s *ClickHouseDiagnosisStore) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		customer_id String,
		score Float64,
		degraded UInt8,
		tier String,
		action String,
		alerts String,
		evaluated_at DateTime
	) ENGINE = MergeTree ORDER BY (evaluated_at, customer_id)`, s.table)
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create diagnosis table: %w", err)
	}
	return nil
}

func (s *ClickHouseDiagnosisStore) Store(ctx context.Context, d *models.RiskDiagnosis) error {
	return s.StoreBatch(ctx, []*models.RiskDiagnosis{d})
}

func (s *ClickHouseDiagnosisStore) StoreBatch(ctx context.Context, ds []*models.RiskDiagnosis) error {
	if len(ds) == 0 {
		return nil
	}

	values := make([]string, 0, len(ds))
	args := make([]interface{}, 0, len(ds)*7)
	for _, d := range ds {
		if d == nil {
			continue
		}
		alerts, err := json.Marshal(d.Alerts)
		if err != nil {
			return fmt.Errorf("marshal alerts: %w", err)
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			d.CustomerID,
			d.Score.Value,
			boolToUInt8(d.Score.Degraded),
			d.Tier,
			d.Action,
			string(alerts),
			d.EvaluatedAt,
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (customer_id, score, degraded, tier, action, alerts, evaluated_at) VALUES %s",
		s.table, strings.Join(values, ","),
	)
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert diagnoses: %w", err)
	}
	return nil
}

// QueryHighRisk returns diagnoses at or above minScore, newest first.
func (s *ClickHouseDiagnosisStore) QueryHighRisk(ctx context.Context, minScore float64, since time.Time, limit int) ([]*models.RiskDiagnosis, error) {
	q := fmt.Sprintf(`SELECT customer_id, score, degraded, tier, action, alerts, evaluated_at
		FROM %s
		WHERE score >= ? AND evaluated_at >= ?
		ORDER BY evaluated_at DESC
		LIMIT ?`, s.table)

	rows, err := s.db.QueryContext(ctx, q, minScore, since, limit)
	if err != nil {
		return nil, fmt.Errorf("query high risk: %w", err)
	}
	defer rows.Close()

	var out []*models.RiskDiagnosis
	for rows.Next() {
		var (
			d        models.RiskDiagnosis
			degraded uint8
			alerts   string
		)
		if err := rows.Scan(&d.CustomerID, &d.Score.Value, &degraded, &d.Tier, &d.Action, &alerts, &d.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("scan diagnosis: %w", err)
		}
		d.Score.Degraded = degraded != 0
		if alerts != "" {
			if err := json.Unmarshal([]byte(alerts), &d.Alerts); err != nil {
				return nil, fmt.Errorf("unmarshal alerts: %w", err)
			}
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

// TierCounts aggregates stored diagnoses by tier since the given time.
func (s *ClickHouseDiagnosisStore) TierCounts(ctx context.Context, since time.Time) (map[string]int64, error) {
	q := fmt.Sprintf("SELECT tier, count() FROM %s WHERE evaluated_at >= ? GROUP BY tier", s.table)
	rows, err := s.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, fmt.Errorf("query tier counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			tier string
			n    int64
		)
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, fmt.Errorf("scan tier count: %w", err)
		}
		counts[tier] = n
	}
	return counts, rows.Err()
}

func (s *ClickHouseDiagnosisStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func boolToUInt8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

var _ domrepo.DiagnosisStore = (*ClickHouseDiagnosisStore)(nil)
