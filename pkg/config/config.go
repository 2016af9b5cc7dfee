package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Models struct {
		Dir          string `yaml:"dir"`
		Scaler       string `yaml:"scaler"`
		Encoders     string `yaml:"encoders"`
		NeuralNet    string `yaml:"neural_net"`
		GradientBoos string `yaml:"gradient_boosted"`
		RandomForest string `yaml:"random_forest"`
	} `yaml:"models"`
	Ensemble struct {
		NeuralNetWeight    float64 `yaml:"neural_net_weight"`
		GradientBoosWeight float64 `yaml:"gradient_boosted_weight"`
		RandomForestWeight float64 `yaml:"random_forest_weight"`
	} `yaml:"ensemble"`
	Fallback struct {
		Scale float64        `yaml:"scale"`
		Cap   float64        `yaml:"cap"`
		Rules []FallbackRule `yaml:"rules"`
	} `yaml:"fallback"`
	Tiers  []TierConfig `yaml:"tiers"`
	Alerts struct {
		Kafka struct {
			Enabled      bool          `yaml:"enabled"`
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			MaxAttempts  int           `yaml:"max_attempts"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"kafka"`
		Webhook struct {
			Enabled bool          `yaml:"enabled"`
			URL     string        `yaml:"url"`
			Timeout time.Duration `yaml:"timeout"`
		} `yaml:"webhook"`
		FlushInterval time.Duration `yaml:"flush_interval"`
		FlushCount    int           `yaml:"flush_count"`
	} `yaml:"alerts"`
	Storage struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		Table        string        `yaml:"table"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"storage"`
	Cache struct {
		Backend string        `yaml:"backend"` // none, memory, redis
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// FallbackRule is one row of the rule-based scoring table: when the named
// signal compares true against the threshold, the contribution is added.
type FallbackRule struct {
	Signal       string  `yaml:"signal"`
	Op           string  `yaml:"op"` // gt, ge, lt, le, eq
	Threshold    float64 `yaml:"threshold"`
	Contribution float64 `yaml:"contribution"`
}

// TierConfig maps the score range [Min, next tier's Min) to a risk tier.
type TierConfig struct {
	Name   string  `yaml:"name"`
	Min    float64 `yaml:"min"`
	Action string  `yaml:"action"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("MODEL_DIR"); v != "" {
		c.Models.Dir = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Alerts.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("ALERTS_TOPIC"); v != "" {
		c.Alerts.Kafka.Topic = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		c.Alerts.Webhook.URL = v
		c.Alerts.Webhook.Enabled = true
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.Storage.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Ensemble.NeuralNetWeight == 0 && c.Ensemble.GradientBoosWeight == 0 && c.Ensemble.RandomForestWeight == 0 {
		c.Ensemble.NeuralNetWeight = 0.40
		c.Ensemble.GradientBoosWeight = 0.35
		c.Ensemble.RandomForestWeight = 0.25
	}
	if c.Fallback.Scale == 0 {
		c.Fallback.Scale = 1.8
	}
	if c.Fallback.Cap == 0 {
		c.Fallback.Cap = 0.95
	}
	if len(c.Fallback.Rules) == 0 {
		c.Fallback.Rules = DefaultFallbackRules()
	}
	if len(c.Tiers) == 0 {
		c.Tiers = DefaultTiers()
	}
	if c.Alerts.FlushInterval == 0 {
		c.Alerts.FlushInterval = 30 * time.Second
	}
	if c.Alerts.FlushCount == 0 {
		c.Alerts.FlushCount = 100
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
}

// DefaultFallbackRules returns the production rule table. Contributions are
// summed, divided by Fallback.Scale and capped at Fallback.Cap.
func DefaultFallbackRules() []FallbackRule {
	return []FallbackRule{
		{Signal: "complain", Op: "eq", Threshold: 1, Contribution: 0.40},
		{Signal: "is_active_member", Op: "eq", Threshold: 0, Contribution: 0.25},
		{Signal: "num_of_products", Op: "ge", Threshold: 3, Contribution: 0.30},
		{Signal: "days_since_last_transaction", Op: "gt", Threshold: 25, Contribution: 0.20},
		{Signal: "monthly_logins", Op: "lt", Threshold: 5, Contribution: 0.15},
		{Signal: "satisfaction_score", Op: "le", Threshold: 2, Contribution: 0.25},
		{Signal: "germany_market", Op: "eq", Threshold: 1, Contribution: 0.15},
		{Signal: "age", Op: "gt", Threshold: 50, Contribution: 0.15},
		{Signal: "monthly_transactions", Op: "lt", Threshold: 40, Contribution: 0.10},
		{Signal: "support_interactions", Op: "gt", Threshold: 5, Contribution: 0.10},
	}
}

// DefaultTiers returns the default risk tier breakpoints. Boundaries are
// inclusive-lower / exclusive-upper; the top tier is closed at 1.0.
func DefaultTiers() []TierConfig {
	return []TierConfig{
		{Name: "low", Min: 0.0, Action: "Continue regular communication and monthly monitoring"},
		{Name: "medium", Min: 0.30, Action: "Run a personalized reactivation campaign and satisfaction survey"},
		{Name: "high", Min: 0.60, Action: "Proactive retention contact within 48-72 hours with targeted offers"},
		{Name: "critical", Min: 0.80, Action: "Immediate retention contact within 24 hours, assign a dedicated account manager"},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Models.Dir == "" {
		return fmt.Errorf("models.dir is required")
	}
	w := c.Ensemble.NeuralNetWeight + c.Ensemble.GradientBoosWeight + c.Ensemble.RandomForestWeight
	if w <= 0 {
		return fmt.Errorf("ensemble weights must sum to a positive value, got %v", w)
	}
	if c.Fallback.Scale <= 0 {
		return fmt.Errorf("fallback.scale must be positive")
	}
	if c.Fallback.Cap <= 0 || c.Fallback.Cap > 1 {
		return fmt.Errorf("fallback.cap must be in (0, 1], got %v", c.Fallback.Cap)
	}
	for i, r := range c.Fallback.Rules {
		switch r.Op {
		case "gt", "ge", "lt", "le", "eq":
		default:
			return fmt.Errorf("fallback.rules[%d]: unknown op %q", i, r.Op)
		}
		if r.Contribution < 0 {
			return fmt.Errorf("fallback.rules[%d]: contribution must be non-negative", i)
		}
	}
	for i := 1; i < len(c.Tiers); i++ {
		if c.Tiers[i].Min <= c.Tiers[i-1].Min {
			return fmt.Errorf("tiers must have strictly increasing min breakpoints")
		}
	}
	if len(c.Tiers) > 0 && c.Tiers[0].Min != 0 {
		return fmt.Errorf("first tier must start at 0")
	}
	if c.Alerts.Kafka.Enabled && len(c.Alerts.Kafka.Brokers) == 0 {
		return fmt.Errorf("alerts.kafka.brokers required when kafka alerts enabled")
	}
	if c.Alerts.Webhook.Enabled && c.Alerts.Webhook.URL == "" {
		return fmt.Errorf("alerts.webhook.url required when webhook alerts enabled")
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be 'none', 'memory' or 'redis', got %q", c.Cache.Backend)
	}
	if c.Storage.Enabled && c.Storage.Host == "" {
		return fmt.Errorf("storage.host required when storage enabled")
	}
	return nil
}
