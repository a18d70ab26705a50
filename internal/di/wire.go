//go:build wireinject
// +build wireinject

package di

import (
	"SignalBoard/internal/usecase"
	"SignalBoard/pkg/config"
	"SignalBoard/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Backends
		ProvideConfigStore,
		ProvideSnapshotSource,
		ProvideCache,
		ProvideEventPublisher,

		// Use cases
		ProvideConfigUseCase,
		ProvideBoardUseCase,
		usecase.NewDashboardUseCase,

		// HTTP
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}
