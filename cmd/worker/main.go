package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"phoneprice-gateway/internal/bootstrap"
	"phoneprice-gateway/internal/config"
	"phoneprice-gateway/internal/infrastructure/logx"
	"phoneprice-gateway/internal/infrastructure/telemetry"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "phoneprice-rate-warmer", config.Load().OTLPEndpoint)
	if err != nil {
		log.Fatal("init telemetry", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	run, cleanup, err := bootstrap.InitWorkerApp(ctx)
	if err != nil {
		log.Fatal("init worker", zap.Error(err))
	}
	defer cleanup()
	if err := run(ctx); err != nil {
		log.Error("worker exited", zap.Error(err))
	}
}
