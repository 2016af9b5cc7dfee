package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"NoChurn/pkg/config"
	applogger "NoChurn/pkg/logger"
)

// ScalerArtifact holds the fitted standard scaler: per-feature mean and
// scale, plus the training-set median used to impute missing values.
// Features defines the canonical vector order.
type ScalerArtifact struct {
	Features []string  `json:"features"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
	Median   []float64 `json:"median"`
}

func (s *ScalerArtifact) validate() error {
	n := len(s.Features)
	if n == 0 {
		return fmt.Errorf("scaler: empty feature list")
	}
	if len(s.Mean) != n || len(s.Scale) != n || len(s.Median) != n {
		return fmt.Errorf("scaler: mean/scale/median length mismatch with %d features", n)
	}
	return nil
}

// EncoderArtifact maps a categorical field to its fitted class list. An
// unseen level encodes to len(classes), the explicit unknown bucket.
type EncoderArtifact map[string][]string

// MLPLayer is one dense layer. Weights is [in][out].
type MLPLayer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// MLPArtifact is a feed-forward network ending in a single sigmoid unit.
type MLPArtifact struct {
	Layers []MLPLayer `json:"layers"`
}

// Tree is one decision tree in flat node-array form. Feature -1 marks a
// leaf, whose prediction is Value at the same index.
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// GBTArtifact is a gradient-boosted ensemble: leaves are log-odds
// increments applied on top of InitScore, squashed through a sigmoid.
type GBTArtifact struct {
	InitScore    float64 `json:"init_score"`
	LearningRate float64 `json:"learning_rate"`
	Trees        []Tree  `json:"trees"`
}

// RFArtifact is a bagged ensemble: leaves are class probabilities, averaged
// across trees.
type RFArtifact struct {
	Trees []Tree `json:"trees"`
}

// Artifacts is the read-only model state loaded once at process start. Any
// member may be nil when its file is missing or malformed; the owning
// adapter then stays permanently unavailable.
type Artifacts struct {
	Scaler          *ScalerArtifact
	Encoders        EncoderArtifact
	NeuralNet       *MLPArtifact
	GradientBoosted *GBTArtifact
	RandomForest    *RFArtifact
}

// LoadArtifacts reads all model artifacts from the configured directory.
// Individual load failures are logged and leave the member nil; they never
// abort startup.
func LoadArtifacts(cfg *config.Config, l *applogger.Logger) *Artifacts {
	a := &Artifacts{}
	dir := cfg.Models.Dir

	var scaler ScalerArtifact
	if err := loadJSON(filepath.Join(dir, cfg.Models.Scaler), &scaler); err != nil {
		l.Warn("scaler artifact unavailable", applogger.Error(err))
	} else if err := scaler.validate(); err != nil {
		l.Warn("scaler artifact invalid", applogger.Error(err))
	} else {
		a.Scaler = &scaler
	}

	var encoders EncoderArtifact
	if err := loadJSON(filepath.Join(dir, cfg.Models.Encoders), &encoders); err != nil {
		l.Warn("encoder artifact unavailable", applogger.Error(err))
	} else {
		a.Encoders = encoders
	}

	var nn MLPArtifact
	if err := loadJSON(filepath.Join(dir, cfg.Models.NeuralNet), &nn); err != nil {
		l.Warn("neural net artifact unavailable", applogger.Error(err))
	} else if len(nn.Layers) == 0 {
		l.Warn("neural net artifact invalid", applogger.String("reason", "no layers"))
	} else {
		a.NeuralNet = &nn
	}

	var gbt GBTArtifact
	if err := loadJSON(filepath.Join(dir, cfg.Models.GradientBoos), &gbt); err != nil {
		l.Warn("gradient boosted artifact unavailable", applogger.Error(err))
	} else if len(gbt.Trees) == 0 {
		l.Warn("gradient boosted artifact invalid", applogger.String("reason", "no trees"))
	} else {
		a.GradientBoosted = &gbt
	}

	var rf RFArtifact
	if err := loadJSON(filepath.Join(dir, cfg.Models.RandomForest), &rf); err != nil {
		l.Warn("random forest artifact unavailable", applogger.Error(err))
	} else if len(rf.Trees) == 0 {
		l.Warn("random forest artifact invalid", applogger.String("reason", "no trees"))
	} else {
		a.RandomForest = &rf
	}

	return a
}

func loadJSON(path string, dest interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
