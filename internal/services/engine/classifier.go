package engine

import (
	"NoChurn/internal/domain/service"
	"NoChurn/pkg/config"
)

// TierClassifier maps a score into ordered risk tiers via configured
// breakpoints. Boundaries are inclusive-lower, exclusive-upper; the top
// tier is closed above at 1.0.
type TierClassifier struct {
	tiers []config.TierConfig
}

// NewTierClassifier creates a classifier over the configured tiers, which
// must be sorted by increasing Min.
func NewTierClassifier(tiers []config.TierConfig) *TierClassifier {
	return &TierClassifier{tiers: tiers}
}

// Classify returns the tier name and its recommended action for the score.
func (c *TierClassifier) Classify(score float64) (string, string) {
	if len(c.tiers) == 0 {
		return "", ""
	}
	for i := len(c.tiers) - 1; i >= 0; i-- {
		if score >= c.tiers[i].Min {
			return c.tiers[i].Name, c.tiers[i].Action
		}
	}
	return c.tiers[0].Name, c.tiers[0].Action
}

var _ service.RiskClassifier = (*TierClassifier)(nil)
