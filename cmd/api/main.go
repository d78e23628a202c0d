package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"phoneprice-gateway/internal/bootstrap"
	"phoneprice-gateway/internal/config"
	infcfg "phoneprice-gateway/internal/infrastructure/config"
	"phoneprice-gateway/internal/infrastructure/logx"
	"phoneprice-gateway/internal/infrastructure/telemetry"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, "phoneprice-gateway", cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("init telemetry", zap.Error(err))
	}

	app, cleanup, err := bootstrap.InitAPI(ctx)
	if err != nil {
		logger.Fatal("bootstrap api", zap.Error(err))
	}
	defer cleanup()

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
	if err := app.Serve(ctx, lis, infcfg.DefaultShutdownTimeout, logger); err != nil {
		logger.Error("serve", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), infcfg.DefaultShutdownTimeout)
	defer cancel()
	_ = shutdownTracing(shutdownCtx)
	logger.Info("server stopped")
}
