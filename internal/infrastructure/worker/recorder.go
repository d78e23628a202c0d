package worker

import (
	"context"
	"errors"
	"time"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"

	"go.uber.org/zap"
)

const recordTimeout = 5 * time.Second

var ErrRecorderFull = errors.New("recorder buffer full")

var (
	_ application.Worker             = (*AsyncRecorder)(nil)
	_ application.PredictionRecorder = (*AsyncRecorder)(nil)
)

// AsyncRecorder takes prediction records off the request path. Record never
// blocks: when the buffer is full the record is dropped and logged.
type AsyncRecorder struct {
	sink application.PredictionRecorder
	jobs chan domain.PredictionRecord
	log  *zap.Logger
}

func NewAsyncRecorder(sink application.PredictionRecorder, buffer int, log *zap.Logger) *AsyncRecorder {
	if buffer <= 0 {
		buffer = 256
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AsyncRecorder{sink: sink, jobs: make(chan domain.PredictionRecord, buffer), log: log.With(zap.String("worker", "recorder"))}
}

func (r *AsyncRecorder) Record(_ context.Context, rec domain.PredictionRecord) error {
	select {
	case r.jobs <- rec:
		return nil
	default:
		r.log.Warn("recorder.dropped", zap.String("id", rec.ID))
		return ErrRecorderFull
	}
}

// Start drains the buffer until ctx ends, then flushes what is left.
func (r *AsyncRecorder) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			r.flush()
			r.log.Info("recorder.stop")
			return
		case rec := <-r.jobs:
			r.processOne(ctx, rec)
		}
	}
}

func (r *AsyncRecorder) flush() {
	ctx := context.Background()
	for {
		select {
		case rec := <-r.jobs:
			r.processOne(ctx, rec)
		default:
			return
		}
	}
}

func (r *AsyncRecorder) processOne(ctx context.Context, rec domain.PredictionRecord) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn("recorder.panic", zap.Any("r", p), zap.String("id", rec.ID))
		}
	}()
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := r.sink.Record(c, rec); err != nil {
		r.log.Warn("recorder.failed", zap.String("id", rec.ID), zap.Error(err))
	}
}
