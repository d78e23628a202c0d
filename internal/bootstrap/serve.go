package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Serve runs the workers and the HTTP server on lis until ctx is done.
// Workers outlive the server: they are stopped only after Shutdown has
// drained in-flight requests, so records those requests queue still reach
// the sink.
func (a *API) Serve(ctx context.Context, lis net.Listener, shutdownTimeout time.Duration, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()

	var wg sync.WaitGroup
	for _, w := range a.Workers {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Start(workerCtx)
		}()
	}

	server := &http.Server{Handler: a.Handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", lis.Addr().String()))
		errCh <- server.Serve(lis)
	}()

	var err error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = server.Shutdown(shutdownCtx)
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
	}

	stopWorkers()
	wg.Wait()
	return err
}
