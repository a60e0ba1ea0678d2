//go:build wireinject
// +build wireinject

package di

import (
	"SignalDesk/pkg/config"
	"SignalDesk/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,
		ProvideKafkaProducer,

		// Repositories
		ProvideCandleStore,
		ProvideSignalLog,
		ProvideDecisionPublisher,

		// Decision pipeline
		ProvideAnalyzers,
		ProvideResolver,
		ProvideStrategy,
		ProvideEngine,

		// Use cases
		ProvideDecideUseCase,
		ProvideBacktestUseCase,

		// HTTP surface and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
