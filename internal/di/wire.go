//go:build wireinject
// +build wireinject

package di

import (
	"NoChurn/pkg/config"
	"NoChurn/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Model artifacts and engine
		ProvideArtifacts,
		ProvideEngine,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideCache,

		// Repositories
		ProvideDiagnosisStore,
		ProvideAlertPublisher,
		ProvideNotifier,

		// Alert fan-out
		ProvideAlertStream,
		ProvideDispatcher,

		// Use cases
		ProvideEvaluator,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
