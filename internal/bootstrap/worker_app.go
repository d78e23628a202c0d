package bootstrap

import (
	"context"
	"fmt"

	"phoneprice-gateway/internal/config"
	"phoneprice-gateway/internal/infrastructure/grpc/inferenceserver"
)

type WorkerApp func(ctx context.Context) error

// InitWorkerApp builds the standalone rate warmer. Without a shared cache it
// would only warm its own memory, so that configuration is refused.
func InitWorkerApp(ctx context.Context) (WorkerApp, func(), error) {
	cfg := config.Load()
	if cfg.RateCache == "" || cfg.RateCache == "memory" {
		return nil, nil, fmt.Errorf("rate warmer needs a shared cache; set RATE_CACHE=redis or RATE_CACHE=pg")
	}
	w, cleanup, err := InitWorker(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init rate warmer: %w", err)
	}
	runner := func(ctx context.Context) error {
		w.Start(ctx)
		return nil
	}
	return runner, cleanup, nil
}

// InitInferenceApp serves the stub inference backend on INFERENCE_ADDR.
func InitInferenceApp(ctx context.Context) (WorkerApp, func(), error) {
	cfg := config.Load()
	srv, cleanup, err := InitInferenceStub(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init inference stub: %w", err)
	}
	runner := func(ctx context.Context) error {
		return inferenceserver.RunServer(ctx, cfg.InferenceAddr, srv, srv.Log)
	}
	return runner, cleanup, nil
}
