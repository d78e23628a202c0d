//go:build wireinject

package bootstrap

import (
	"context"

	"phoneprice-gateway/internal/infrastructure/grpc/inferenceserver"
	"phoneprice-gateway/internal/infrastructure/worker"

	"github.com/google/wire"
)

var rateSet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvidePair,
	ProvideDB,
	ProvideRedisClient,
	ProvideRateSources,
	ProvideSharedStore,
	ProvideResolver,
)

// API injector: builds *API + Cleanup
func InitAPI(ctx context.Context) (*API, func(), error) {
	wire.Build(
		rateSet,
		ProvideCatalog,
		ProvideInference,
		ProvidePredictionService,
		ProvideCatalogService,
		ProvideRecorder,
		ProvideLimiter,
		ProvideServer,
		ProvideWarmer,
		ProvideAPI,
	)
	return nil, nil, nil
}

// Worker injector: builds the rate warmer + Cleanup
func InitWorker(ctx context.Context) (*worker.RateWarmer, func(), error) {
	wire.Build(
		rateSet,
		ProvideWarmer,
	)
	return nil, nil, nil
}

func InitInferenceStub(ctx context.Context) (*inferenceserver.Server, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideConfig,
		ProvideDB,
		ProvideCatalog,
		ProvideInferenceStub,
	)
	return nil, nil, nil
}
