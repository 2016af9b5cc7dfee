package engine

import (
	"fmt"

	"NoChurn/internal/domain/models"
	"NoChurn/internal/domain/service"
)

type alertRule struct {
	name     string
	severity models.Severity
	match    func(*models.CustomerRecord) bool
	reason   func(*models.CustomerRecord) string
}

// EarlyAlertEvaluator applies independent business rules to raw record
// fields. It never consults model outputs, so alerting behaves identically
// when every predictor is unavailable.
type EarlyAlertEvaluator struct {
	rules []alertRule
}

// NewEarlyAlertEvaluator creates the evaluator with the production rule set.
func NewEarlyAlertEvaluator() *EarlyAlertEvaluator {
	return &EarlyAlertEvaluator{rules: []alertRule{
		{
			name:     "complaint_with_inactivity",
			severity: models.SeverityHigh,
			match: func(r *models.CustomerRecord) bool {
				return r.Complain && r.DaysSinceLastTransaction > 25
			},
			reason: func(r *models.CustomerRecord) string {
				return fmt.Sprintf("open complaint with no transactions for %.0f days", r.DaysSinceLastTransaction)
			},
		},
		{
			name:     "inactive_low_engagement",
			severity: models.SeverityMedium,
			match: func(r *models.CustomerRecord) bool {
				return !r.IsActiveMember && r.MonthlyLogins < 5
			},
			reason: func(r *models.CustomerRecord) string {
				return fmt.Sprintf("inactive member with %.0f logins this month", r.MonthlyLogins)
			},
		},
		{
			name:     "low_satisfaction",
			severity: models.SeverityMedium,
			match: func(r *models.CustomerRecord) bool {
				return r.SatisfactionScore <= 2
			},
			reason: func(r *models.CustomerRecord) string {
				return fmt.Sprintf("satisfaction score of %d out of 5", r.SatisfactionScore)
			},
		},
		{
			name:     "product_saturation",
			severity: models.SeverityMedium,
			match: func(r *models.CustomerRecord) bool {
				return r.NumOfProducts >= 3
			},
			reason: func(r *models.CustomerRecord) string {
				return fmt.Sprintf("holds %d products, historically a churn precursor", r.NumOfProducts)
			},
		},
		{
			name:     "session_abandonment",
			severity: models.SeverityLow,
			match: func(r *models.CustomerRecord) bool {
				return r.SessionAbandonmentRate >= 0.5
			},
			reason: func(r *models.CustomerRecord) string {
				return fmt.Sprintf("%.0f%% of sessions abandoned", r.SessionAbandonmentRate*100)
			},
		},
	}}
}

// Evaluate runs every rule against the record. A record may trigger zero,
// one or many flags.
func (e *EarlyAlertEvaluator) Evaluate(r *models.CustomerRecord) []models.AlertFlag {
	var flags []models.AlertFlag
	for _, rule := range e.rules {
		if rule.match(r) {
			flags = append(flags, models.AlertFlag{
				Rule:     rule.name,
				Severity: rule.severity,
				Reason:   rule.reason(r),
			})
		}
	}
	return flags
}

var _ service.AlertEvaluator = (*EarlyAlertEvaluator)(nil)
