package inferenceserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"phoneprice-gateway/internal/infrastructure/grpc/inferencepb"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// NewGRPCServer registers srv behind tracing, call logging and panic
// recovery.
func NewGRPCServer(srv inferencepb.PricePredictionServer, log *zap.Logger) *grpc.Server {
	if log == nil {
		log = zap.NewNop()
	}
	gs := grpc.NewServer(
		grpc.Creds(insecure.NewCredentials()),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(callLog(log), recoverCall(log)),
	)
	inferencepb.RegisterPricePredictionServer(gs, srv)
	return gs
}

// Serve runs gs on lis until ctx is done, then drains in-flight calls.
func Serve(ctx context.Context, gs *grpc.Server, lis net.Listener, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("inference_server_started", zap.String("addr", lis.Addr().String()))
		err := gs.Serve(lis)
		if errors.Is(err, grpc.ErrServerStopped) {
			err = nil
		}
		errCh <- err
	}()
	select {
	case <-ctx.Done():
		log.Info("inference_server_stopping")
		gs.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// RunServer listens on addr and serves srv until ctx is done.
func RunServer(ctx context.Context, addr string, srv inferencepb.PricePredictionServer, log *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return Serve(ctx, NewGRPCServer(srv, log), lis, log)
}

func callLog(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("inference_call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("took", time.Since(start)),
		)
		return resp, err
	}
}

func recoverCall(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("inference_panic", zap.String("method", info.FullMethod), zap.Any("panic", rec))
				err = status.Error(codes.Internal, "internal error")
			}
		}()
		return handler(ctx, req)
	}
}
