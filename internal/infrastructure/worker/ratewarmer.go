package worker

import (
	"context"
	"time"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"
	infraconfig "phoneprice-gateway/internal/infrastructure/config"

	"go.uber.org/zap"
)

type Refresher interface {
	Refresh(ctx context.Context) domain.RateResolution
}

var _ application.Worker = (*RateWarmer)(nil)

// RateWarmer refreshes the quote ahead of expiry so request paths find it
// fresh. With a shared store configured it also publishes to other gateways.
type RateWarmer struct {
	Rates Refresher
	Every time.Duration
	Log   *zap.Logger
}

func (w *RateWarmer) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.Every <= 0 {
		w.Every = infraconfig.DefaultWorkerWarmEvery
	}

	t := time.NewTicker(w.Every)
	defer t.Stop()

	log.Info("rate_warmer_started", zap.Duration("every", w.Every))
	w.tick(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("rate_warmer_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *RateWarmer) tick(ctx context.Context, log *zap.Logger) {
	res := w.Rates.Refresh(ctx)
	if res.Mode.Degraded() {
		log.Warn("rate_warm_degraded", zap.String("mode", string(res.Mode)), zap.String("rate", res.Quote.Rate.String()))
		return
	}
	log.Info("rate_warm_done",
		zap.String("source", res.Quote.Source),
		zap.String("rate", res.Quote.Rate.String()),
		zap.String("mode", string(res.Mode)))
}
