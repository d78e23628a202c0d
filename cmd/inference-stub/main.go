// Command inference-stub serves the PricePrediction gRPC contract with the
// fallback tables, for local runs without the trained model.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"phoneprice-gateway/internal/bootstrap"
	"phoneprice-gateway/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, cleanup, err := bootstrap.InitInferenceApp(ctx)
	if err != nil {
		log.Fatal("init inference stub", zap.Error(err))
	}
	defer cleanup()
	if err := run(ctx); err != nil {
		log.Error("inference stub exited", zap.Error(err))
	}
}
