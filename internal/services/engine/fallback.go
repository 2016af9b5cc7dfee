package engine

import (
	"NoChurn/internal/domain/models"
	"NoChurn/internal/domain/service"
	"NoChurn/pkg/config"
)

// RuleScorer is the deterministic fallback: an enumerable table of
// (signal, threshold, contribution) rows summed, scaled and capped. It
// depends only on raw record fields, never on trained artifacts.
type RuleScorer struct {
	rules []config.FallbackRule
	scale float64
	cap   float64
}

// NewRuleScorer builds the fallback scorer from configuration.
func NewRuleScorer(rules []config.FallbackRule, scale, cap float64) *RuleScorer {
	if scale <= 0 {
		scale = 1
	}
	if cap <= 0 || cap > 1 {
		cap = 1
	}
	return &RuleScorer{rules: rules, scale: scale, cap: cap}
}

// Score sums the contributions of matching rules, divides by the scale and
// saturates to [0, cap]. Order-independent by construction.
func (s *RuleScorer) Score(r *models.CustomerRecord) float64 {
	sum := 0.0
	for _, rule := range s.rules {
		v, ok := r.Signal(rule.Signal)
		if !ok {
			continue
		}
		if matches(v, rule.Op, rule.Threshold) {
			sum += rule.Contribution
		}
	}

	p := sum / s.scale
	if p > s.cap {
		p = s.cap
	}
	if p < 0 {
		p = 0
	}
	return p
}

func matches(v float64, op string, threshold float64) bool {
	switch op {
	case "gt":
		return v > threshold
	case "ge":
		return v >= threshold
	case "lt":
		return v < threshold
	case "le":
		return v <= threshold
	case "eq":
		return v == threshold
	}
	return false
}

var _ service.FallbackScorer = (*RuleScorer)(nil)
