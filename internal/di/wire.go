//go:build wireinject
// +build wireinject

package di

import (
	"NavScan/pkg/config"
	"NavScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideStdout,
		ProvideMetrics,

		// Infrastructure
		ProvideBytesCache,
		ProvidePriceProvider,
		ProvideDatasetStore,
		ProvideSummaryPublisher,
		ProvideReporter,

		// Use cases
		ProvideParams,
		ProvideFetcher,
		ProvideAnalyzer,

		ProvideApp,
	)
	return nil, nil, nil
}
