package engine

import (
	"fmt"
	"math"
	"strings"

	"NoChurn/internal/domain/models"
	"NoChurn/internal/domain/service"
)

// StandardNormalizer applies the fitted encoders and standard scaler to a
// raw record. Pure function of the record plus loaded artifact state.
type StandardNormalizer struct {
	scaler   *ScalerArtifact
	encoders EncoderArtifact
}

// NewNormalizer builds a normalizer from loaded artifacts. Returns an error
// when the scaler is absent; the encoders may be empty when the feature set
// carries no categorical fields.
func NewNormalizer(scaler *ScalerArtifact, encoders EncoderArtifact) (*StandardNormalizer, error) {
	if scaler == nil {
		return nil, fmt.Errorf("normalizer: scaler artifact is required")
	}
	if err := scaler.validate(); err != nil {
		return nil, err
	}
	return &StandardNormalizer{scaler: scaler, encoders: encoders}, nil
}

// Normalize encodes categorical fields, imputes missing numeric values with
// the training-set median and applies standard scaling, in the fitted
// feature order.
func (n *StandardNormalizer) Normalize(r *models.CustomerRecord) (models.FeatureVector, error) {
	vec := make(models.FeatureVector, len(n.scaler.Features))
	for i, name := range n.scaler.Features {
		v, ok := n.rawValue(r, name)
		if !ok {
			return nil, fmt.Errorf("normalizer: record has no source for feature %q", name)
		}
		if math.IsNaN(v) {
			v = n.scaler.Median[i]
		}
		scale := n.scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}
		vec[i] = (v - n.scaler.Mean[i]) / scale
	}
	return vec, nil
}

func (n *StandardNormalizer) rawValue(r *models.CustomerRecord, name string) (float64, bool) {
	if classes, ok := n.encoders[name]; ok {
		return n.encode(classes, categoricalValue(r, name)), true
	}
	return r.Signal(name)
}

// encode maps a level to its fitted class index; unseen levels land in the
// unknown bucket at len(classes).
func (n *StandardNormalizer) encode(classes []string, level string) float64 {
	for i, c := range classes {
		if strings.EqualFold(c, level) {
			return float64(i)
		}
	}
	return float64(len(classes))
}

func categoricalValue(r *models.CustomerRecord, name string) string {
	switch name {
	case "geography":
		return r.Geography
	case "gender":
		return r.Gender
	case "card_type":
		return r.CardType
	}
	return ""
}

var _ service.Normalizer = (*StandardNormalizer)(nil)
