package models

import "time"

// AlertEvent is the outbound form of a fired alert flag, enriched with the
// evaluation context. Published to Kafka, pushed over WebSocket and posted
// to the CRM webhook.
type AlertEvent struct {
	CustomerID string    `json:"customer_id"`
	Rule       string    `json:"rule"`
	Severity   Severity  `json:"severity"`
	Reason     string    `json:"reason"`
	Score      float64   `json:"score"`
	Tier       string    `json:"tier"`
	FiredAt    time.Time `json:"fired_at"`
}

// AlertEventsFrom expands a diagnosis into one event per fired flag.
func AlertEventsFrom(d *RiskDiagnosis) []*AlertEvent {
	if d == nil || len(d.Alerts) == 0 {
		return nil
	}
	events := make([]*AlertEvent, 0, len(d.Alerts))
	for _, a := range d.Alerts {
		events = append(events, &AlertEvent{
			CustomerID: d.CustomerID,
			Rule:       a.Rule,
			Severity:   a.Severity,
			Reason:     a.Reason,
			Score:      d.Score.Value,
			Tier:       d.Tier,
			FiredAt:    d.EvaluatedAt,
		})
	}
	return events
}
