//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"FinDash/pkg/config"
	"FinDash/pkg/server"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideMetrics,
	ProvideStorage,
	ProvidePublisher,
	ProvideCache,
)

var usecaseSet = wire.NewSet(
	ProvideMarketProviders,
	ProvideMacroProvider,
	ProvideMarketData,
	ProvidePlaybook,
	ProvideSignalsUseCase,
	ProvideMacroUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		usecaseSet,
		ProvideEndpointMetrics,
		ProvideQuoteBook,
		ProvideQuoteCollector,
		ProvideIndicatorsUseCase,
		ProvideMomentumUseCase,
		ProvideHandlers,
		ProvideLimiter,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeToolkit wires the usecases the CLI commands need.
func InitializeToolkit(cfg *config.Config) (*Toolkit, error) {
	wire.Build(
		infraSet,
		usecaseSet,
		ProvideToolkit,
	)
	return &Toolkit{}, nil
}
