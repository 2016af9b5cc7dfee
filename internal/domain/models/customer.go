package models

import "strings"

// CustomerRecord is a single customer's raw feature record as supplied by a
// collaborator (API handler, batch loader). Immutable once handed to the
// engine.
type CustomerRecord struct {
	CustomerID string

	CreditScore       float64
	Geography         string
	Gender            string
	Age               float64
	Balance           float64
	EstimatedSalary   float64
	NumOfProducts     int
	HasCrCard         bool
	IsActiveMember    bool
	Complain          bool
	SatisfactionScore int
	CardType          string
	PointEarned       float64

	MonthlyTransactions      float64
	DaysSinceLastTransaction float64
	MonthlyLogins            float64
	AvgSessionDuration       float64
	SupportInteractions      float64
	SessionAbandonmentRate   float64
	LocalCompetitionIndex    float64
}

// Signal returns the named raw business signal as a float64. Boolean flags
// map to 0/1. The synthetic "germany_market" signal is 1 when the customer
// belongs to the German market. The second return is false for unknown
// signal names.
func (r *CustomerRecord) Signal(name string) (float64, bool) {
	switch name {
	case "credit_score":
		return r.CreditScore, true
	case "age":
		return r.Age, true
	case "balance":
		return r.Balance, true
	case "estimated_salary":
		return r.EstimatedSalary, true
	case "num_of_products":
		return float64(r.NumOfProducts), true
	case "has_cr_card":
		return boolSignal(r.HasCrCard), true
	case "is_active_member":
		return boolSignal(r.IsActiveMember), true
	case "complain":
		return boolSignal(r.Complain), true
	case "satisfaction_score":
		return float64(r.SatisfactionScore), true
	case "point_earned":
		return r.PointEarned, true
	case "monthly_transactions":
		return r.MonthlyTransactions, true
	case "days_since_last_transaction":
		return r.DaysSinceLastTransaction, true
	case "monthly_logins":
		return r.MonthlyLogins, true
	case "avg_session_duration":
		return r.AvgSessionDuration, true
	case "support_interactions":
		return r.SupportInteractions, true
	case "session_abandonment_rate":
		return r.SessionAbandonmentRate, true
	case "local_competition_index":
		return r.LocalCompetitionIndex, true
	case "germany_market":
		return boolSignal(strings.EqualFold(r.Geography, "Germany")), true
	}
	return 0, false
}

func boolSignal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
