package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: test
models:
  dir: models
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Ensemble.NeuralNetWeight != 0.40 ||
		cfg.Ensemble.GradientBoosWeight != 0.35 ||
		cfg.Ensemble.RandomForestWeight != 0.25 {
		t.Fatalf("ensemble weights = %+v", cfg.Ensemble)
	}
	if cfg.Fallback.Scale != 1.8 || cfg.Fallback.Cap != 0.95 {
		t.Fatalf("fallback = %+v", cfg.Fallback)
	}
	if len(cfg.Fallback.Rules) != 10 {
		t.Fatalf("default rules = %d, want 10", len(cfg.Fallback.Rules))
	}
	if len(cfg.Tiers) != 4 || cfg.Tiers[0].Name != "low" || cfg.Tiers[3].Name != "critical" {
		t.Fatalf("default tiers = %+v", cfg.Tiers)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("logging level = %q", cfg.Logging.Level)
	}
}

func TestLoadMissingEnvironment(t *testing.T) {
	if _, err := Load(writeConfig(t, "models:\n  dir: models\n")); err == nil {
		t.Fatal("expected validation error for missing environment")
	}
}

func TestLoadMissingModelsDir(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatal("expected validation error for missing models.dir")
	}
}

func TestLoadRejectsUnknownRuleOp(t *testing.T) {
	cfg := minimalConfig + `
fallback:
  rules:
    - { signal: age, op: between, threshold: 50, contribution: 0.1 }
`
	if _, err := Load(writeConfig(t, cfg)); err == nil {
		t.Fatal("expected error for unknown rule op")
	}
}

func TestLoadRejectsUnorderedTiers(t *testing.T) {
	cfg := minimalConfig + `
tiers:
  - { name: low, min: 0.0, action: a }
  - { name: high, min: 0.6, action: b }
  - { name: medium, min: 0.3, action: c }
`
	if _, err := Load(writeConfig(t, cfg)); err == nil {
		t.Fatal("expected error for non-increasing tier breakpoints")
	}
}

func TestLoadRejectsTiersNotStartingAtZero(t *testing.T) {
	cfg := minimalConfig + `
tiers:
  - { name: medium, min: 0.3, action: a }
`
	if _, err := Load(writeConfig(t, cfg)); err == nil {
		t.Fatal("expected error for first tier above zero")
	}
}

func TestLoadRejectsKafkaWithoutBrokers(t *testing.T) {
	cfg := minimalConfig + `
alerts:
  kafka:
    enabled: true
    topic: churn.alerts
`
	if _, err := Load(writeConfig(t, cfg)); err == nil {
		t.Fatal("expected error for kafka alerts without brokers")
	}
}

func TestLoadRejectsBadCacheBackend(t *testing.T) {
	cfg := minimalConfig + `
cache:
  backend: memcached
`
	if _, err := Load(writeConfig(t, cfg)); err == nil {
		t.Fatal("expected error for unsupported cache backend")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("MODEL_DIR", "/opt/models")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("WEBHOOK_URL", "https://crm.example.com/hooks/churn")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Models.Dir != "/opt/models" {
		t.Fatalf("models dir = %q", cfg.Models.Dir)
	}
	if len(cfg.Alerts.Kafka.Brokers) != 2 {
		t.Fatalf("brokers = %v", cfg.Alerts.Kafka.Brokers)
	}
	if !cfg.Alerts.Webhook.Enabled || cfg.Alerts.Webhook.URL == "" {
		t.Fatalf("webhook = %+v", cfg.Alerts.Webhook)
	}
}
