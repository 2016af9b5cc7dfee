package models

// PredictRequest carries one customer record for evaluation. Optional
// engagement fields fall back to dashboard defaults when omitted.
type PredictRequest struct {
	CustomerID        string  `json:"customer_id"`
	CreditScore       float64 `json:"credit_score" validate:"required,gte=300,lte=850"`
	Geography         string  `json:"geography" validate:"required"`
	Gender            string  `json:"gender" validate:"required"`
	Age               float64 `json:"age" validate:"required,gte=18,lte=100"`
	Balance           float64 `json:"balance" validate:"gte=0"`
	EstimatedSalary   float64 `json:"estimated_salary" validate:"gte=0"`
	NumOfProducts     int     `json:"num_of_products" validate:"required,gte=1,lte=4"`
	HasCrCard         bool    `json:"has_cr_card"`
	IsActiveMember    bool    `json:"is_active_member"`
	Complain          bool    `json:"complain"`
	SatisfactionScore int     `json:"satisfaction_score" validate:"required,gte=1,lte=5"`
	CardType          string  `json:"card_type"`
	PointEarned       float64 `json:"point_earned" default:"500" validate:"gte=0"`

	MonthlyTransactions      float64 `json:"monthly_transactions" validate:"gte=0"`
	DaysSinceLastTransaction float64 `json:"days_since_last_transaction" validate:"gte=0"`
	MonthlyLogins            float64 `json:"monthly_logins" validate:"gte=0"`
	AvgSessionDuration       float64 `json:"avg_session_duration" default:"10.0" validate:"gte=0"`
	SupportInteractions      float64 `json:"support_interactions" validate:"gte=0"`
	SessionAbandonmentRate   float64 `json:"session_abandonment_rate" default:"0.15" validate:"gte=0,lte=1"`
	LocalCompetitionIndex    float64 `json:"local_competition_index" default:"0.5" validate:"gte=0,lte=1"`
}

// ToRecord converts the request into the engine's record form.
func (r *PredictRequest) ToRecord() *CustomerRecord {
	return &CustomerRecord{
		CustomerID:        r.CustomerID,
		CreditScore:       r.CreditScore,
		Geography:         r.Geography,
		Gender:            r.Gender,
		Age:               r.Age,
		Balance:           r.Balance,
		EstimatedSalary:   r.EstimatedSalary,
		NumOfProducts:     r.NumOfProducts,
		HasCrCard:         r.HasCrCard,
		IsActiveMember:    r.IsActiveMember,
		Complain:          r.Complain,
		SatisfactionScore: r.SatisfactionScore,
		CardType:          r.CardType,
		PointEarned:       r.PointEarned,

		MonthlyTransactions:      r.MonthlyTransactions,
		DaysSinceLastTransaction: r.DaysSinceLastTransaction,
		MonthlyLogins:            r.MonthlyLogins,
		AvgSessionDuration:       r.AvgSessionDuration,
		SupportInteractions:      r.SupportInteractions,
		SessionAbandonmentRate:   r.SessionAbandonmentRate,
		LocalCompetitionIndex:    r.LocalCompetitionIndex,
	}
}

// BatchPredictRequest evaluates a collection of records in one call.
type BatchPredictRequest struct {
	Records []PredictRequest `json:"records" validate:"required,min=1,max=1000,dive"`
}

// BatchSummary aggregates a batch evaluation for segment analysis.
type BatchSummary struct {
	Total           int            `json:"total"`
	MeanProbability float64        `json:"mean_probability"`
	TierCounts      map[string]int `json:"tier_counts"`
	Degraded        int            `json:"degraded"`
	AlertsFired     int            `json:"alerts_fired"`
}

// BatchPredictResponse returns per-record diagnoses plus the batch summary.
type BatchPredictResponse struct {
	Diagnoses []*RiskDiagnosis `json:"diagnoses"`
	Summary   BatchSummary     `json:"summary"`
}

// HighRiskReportRequest filters stored diagnoses by score and recency.
type HighRiskReportRequest struct {
	MinScore float64 `query:"min_score" default:"0.6" validate:"gte=0,lte=1"`
	Hours    int     `query:"hours" default:"24" validate:"gte=1,lte=720"`
	Limit    int     `query:"limit" default:"100" validate:"gte=1,lte=1000"`
}

// HighRiskReportResponse lists stored diagnoses at or above the cutoff.
type HighRiskReportResponse struct {
	MinScore  float64          `json:"min_score"`
	Hours     int              `json:"hours"`
	Diagnoses []*RiskDiagnosis `json:"diagnoses"`
}

// TierReportRequest selects the window for stored tier counts.
type TierReportRequest struct {
	Hours int `query:"hours" default:"24" validate:"gte=1,lte=720"`
}

// TierReportResponse returns stored diagnosis counts per tier.
type TierReportResponse struct {
	Hours  int              `json:"hours"`
	Counts map[string]int64 `json:"counts"`
}

// ModelsResponse reports the ensemble composition for GET /api/models.
type ModelsResponse struct {
	Models []ModelStatus `json:"models"`
}

// HealthResponse reports process and dependency health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Models   []ModelStatus     `json:"models"`
	Degraded bool              `json:"degraded"`
	Backends map[string]string `json:"backends,omitempty"`
}
