package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"NoChurn/internal/handler/api"
	"NoChurn/internal/usecase"
	"NoChurn/pkg/cache"
	pkgch "NoChurn/pkg/clickhouse"
	"NoChurn/pkg/config"
	xhttp "NoChurn/pkg/http"
	pkgkafka "NoChurn/pkg/kafka"
	applogger "NoChurn/pkg/logger"
)

// App encapsulates the application lifecycle: start the alert dispatcher
// and the HTTP server, block until interrupted, then drain everything.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    *api.ChurnEchoHandler
	stream     *api.AlertStream
	dispatcher *usecase.AlertDispatcher
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	cacheSvc   cache.Service

	httpServer *xhttp.Server
}

// New creates the application. Infrastructure clients may be nil when
// their feature is disabled in configuration.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler *api.ChurnEchoHandler,
	stream *api.AlertStream,
	dispatcher *usecase.AlertDispatcher,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		handler:    handler,
		stream:     stream,
		dispatcher: dispatcher,
		chClient:   chClient,
		producer:   producer,
		cacheSvc:   cacheSvc,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.dispatcher.Start()

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(a.logger),
	)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("serving",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown drains in dependency order: stop accepting requests, flush
// pending alerts, then close infrastructure clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.dispatcher.Stop(ctx); err != nil {
		a.logger.Warn("alert dispatcher stop error", applogger.Error(err))
	}

	if a.stream != nil {
		_ = a.stream.Close()
	}
	if a.cacheSvc != nil {
		if err := a.cacheSvc.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
