package di

import (
	"context"
	"fmt"
	"time"

	domrepo "NoChurn/internal/domain/repository"
	"NoChurn/internal/handler/api"
	internalrepo "NoChurn/internal/repository"
	"NoChurn/internal/services/engine"
	"NoChurn/internal/usecase"
	"NoChurn/pkg/cache"
	pkgch "NoChurn/pkg/clickhouse"
	"NoChurn/pkg/config"
	xhttp "NoChurn/pkg/http"
	pkgkafka "NoChurn/pkg/kafka"
	applogger "NoChurn/pkg/logger"
	"NoChurn/pkg/metrics"
	"NoChurn/pkg/server"
)

// ProvideLogger creates the application logger from configuration.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideArtifacts loads the model artifacts once at startup.
func ProvideArtifacts(cfg *config.Config, l *applogger.Logger) *engine.Artifacts {
	return engine.LoadArtifacts(cfg, l)
}

// ProvideEngine assembles the inference engine.
func ProvideEngine(artifacts *engine.Artifacts, cfg *config.Config, l *applogger.Logger) *engine.Engine {
	return engine.New(artifacts, cfg, l)
}

// ProvideClickHouseClient creates the ClickHouse client, or nil when
// diagnosis storage is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Storage.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Storage.Host),
		pkgch.WithPort(cfg.Storage.Port),
		pkgch.WithDatabase(cfg.Storage.Database),
		pkgch.WithCredentials(cfg.Storage.User, cfg.Storage.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.Storage.DialTimeout, cfg.Storage.ReadTimeout, cfg.Storage.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideDiagnosisStore creates the diagnosis store and ensures its schema.
func ProvideDiagnosisStore(ch *pkgch.Client, cfg *config.Config) (domrepo.DiagnosisStore, error) {
	if ch == nil {
		return nil, nil
	}
	store := internalrepo.NewClickHouseDiagnosisStore(ch.DB(), cfg.Storage.Database+"."+cfg.Storage.Table)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("diagnosis store schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates the Kafka producer, or nil when broker
// alerting is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Alerts.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Alerts.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Alerts.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Alerts.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Alerts.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Alerts.Kafka.WriteTimeout, cfg.Alerts.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideAlertPublisher creates the broker sink over the producer.
func ProvideAlertPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.AlertPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Alerts.Kafka.Topic)
}

// ProvideNotifier creates the CRM webhook sink, or nil when disabled.
func ProvideNotifier(cfg *config.Config) domrepo.Notifier {
	if !cfg.Alerts.Webhook.Enabled {
		return nil
	}
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Alerts.Webhook.Timeout))
	return internalrepo.NewWebhookNotifier(client, cfg.Alerts.Webhook.URL)
}

// ProvideAlertStream creates the WebSocket hub for dashboard clients.
func ProvideAlertStream(l *applogger.Logger) *api.AlertStream {
	return api.NewAlertStream(l)
}

// ProvideDispatcher wires the alert sinks into the dispatcher.
func ProvideDispatcher(
	cfg *config.Config,
	l *applogger.Logger,
	publisher domrepo.AlertPublisher,
	notifier domrepo.Notifier,
	stream *api.AlertStream,
) *usecase.AlertDispatcher {
	opts := []usecase.DispatcherOption{usecase.WithBroadcast(stream.Broadcast)}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}
	return usecase.NewAlertDispatcher(l, cfg.Alerts.FlushInterval, cfg.Alerts.FlushCount, opts...)
}

// ProvideCache creates the configured cache backend, or nil for "none".
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "redis":
		c, err := cache.NewRedis(cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	case "memory":
		return cache.NewMemory(time.Minute), nil
	default:
		return nil, nil
	}
}

// ProvideEvaluator creates the risk evaluator use case.
func ProvideEvaluator(
	eng *engine.Engine,
	m domrepo.Metrics,
	l *applogger.Logger,
	cacheSvc cache.Service,
	store domrepo.DiagnosisStore,
	dispatcher *usecase.AlertDispatcher,
	cfg *config.Config,
) *usecase.RiskEvaluator {
	opts := []usecase.EvaluatorOption{usecase.WithDispatcher(dispatcher)}
	if cacheSvc != nil {
		opts = append(opts, usecase.WithCache(cacheSvc, cfg.Cache.TTL))
	}
	if store != nil {
		opts = append(opts, usecase.WithStore(store))
	}
	return usecase.NewRiskEvaluator(eng, m, l, opts...)
}

// ProvideHandler creates the Echo handler and registers backend probes.
func ProvideHandler(
	l *applogger.Logger,
	evaluator *usecase.RiskEvaluator,
	stream *api.AlertStream,
	store domrepo.DiagnosisStore,
	ch *pkgch.Client,
) *api.ChurnEchoHandler {
	h := api.NewChurnEchoHandler(l, evaluator, stream, store)
	if ch != nil {
		h.RegisterBackendCheck("clickhouse", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return ch.Health(ctx)
		})
	}
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.ChurnEchoHandler,
	stream *api.AlertStream,
	dispatcher *usecase.AlertDispatcher,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
	cacheSvc cache.Service,
) *server.App {
	return server.New(cfg, l, handler, stream, dispatcher, ch, producer, cacheSvc)
}
