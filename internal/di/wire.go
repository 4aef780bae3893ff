//go:build wireinject
// +build wireinject

package di

import (
	"SmartBank/internal/usecase"
	"SmartBank/pkg/config"
	"SmartBank/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvidePostgresClient,
		ProvideClickHouseClient,
		ProvideRedisClient,
		ProvideCache,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisQueue,

		// Repositories
		ProvideSeriesStore,
		ProvideGenerator,
		ProvideSeriesSource,
		ProvideNotificationStore,
		ProvideUploadStore,
		ProvideTradeStore,
		ProvideHub,
		ProvideNotifier,
		ProvideEventPublisher,
		ProvideLogPublisher,

		// Use cases
		ProvideFilter,
		ProvideSeriesUseCase,
		usecase.NewDashboardUseCase,
		ProvideNotificationUseCase,
		ProvideUploadUseCase,
		ProvideTradeUseCase,
		ProvideHealthUseCase,
		ProvideUploadEventHandler,

		// HTTP
		ProvideLimiter,
		ProvideHTTPHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
