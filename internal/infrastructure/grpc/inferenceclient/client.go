package inferenceclient

import (
	"context"
	"fmt"
	"time"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/infrastructure/grpc/inferencepb"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// HealthyStatus is what the backend reports when it can serve predictions.
const HealthyStatus = "healthy"

type Client struct {
	conn    *grpc.ClientConn
	cli     *inferencepb.PricePredictionClient
	timeout time.Duration
}

var _ application.InferenceClient = (*Client)(nil)

// New does not block on the connection; an unreachable backend surfaces as a
// call error and the caller falls back.
func New(ctx context.Context, target string, timeout time.Duration, opts ...grpc.DialOption) (*Client, func(), error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}, opts...)
	conn, err := grpc.DialContext(ctx, target, opts...)
	if err != nil {
		return nil, nil, err
	}
	return NewFromConn(conn, timeout), func() { _ = conn.Close() }, nil
}

func NewFromConn(conn *grpc.ClientConn, timeout time.Duration) *Client {
	return &Client{conn: conn, cli: inferencepb.NewPricePredictionClient(conn), timeout: timeout}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

func (c *Client) PredictPrice(ctx context.Context, req domain.InferenceRequest) (domain.PredictionResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.cli.PredictPrice(ctx, inferencepb.PriceRequest{
		ModelID:     int32(req.ModelID),
		ModelName:   req.ModelName,
		RAMGB:       int32(req.RAMGB),
		StorageGB:   int32(req.StorageGB),
		Condition:   req.Condition,
		ReleaseYear: int32(req.ReleaseYear),
	})
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("inference: predict: %w", err)
	}
	if resp.PriceRange == nil {
		return domain.PredictionResult{}, fmt.Errorf("inference: %w: price_range missing", domain.ErrMalformedPayload)
	}
	price, err := toDecimal(resp.PredictedPrice)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	lo, err := toDecimal(resp.PriceRange.MinPrice)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	hi, err := toDecimal(resp.PriceRange.MaxPrice)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	return domain.PredictionResult{
		PredictedPrice:  price,
		ConfidenceScore: resp.ConfidenceScore,
		PriceRange:      domain.PriceRange{Min: lo, Max: hi},
		Status:          resp.Status,
		Message:         resp.Message,
	}, nil
}

func (c *Client) ModelInfo(ctx context.Context, modelID int) (domain.ModelInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.cli.GetModelInfo(ctx, inferencepb.ModelInfoRequest{ModelID: int32(modelID)})
	if err != nil {
		return domain.ModelInfo{}, fmt.Errorf("inference: model info: %w", err)
	}
	storage := make([]int, 0, len(resp.AvailableStorage))
	for _, s := range resp.AvailableStorage {
		storage = append(storage, int(s))
	}
	return domain.ModelInfo{
		ModelName:        resp.ModelName,
		ReleaseYear:      int(resp.ReleaseYear),
		AvailableStorage: storage,
		RAMGB:            int(resp.RAMGB),
		IsPro:            resp.IsPro,
	}, nil
}

func (c *Client) Health(ctx context.Context) (domain.BackendHealth, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.cli.HealthCheck(ctx, inferencepb.HealthCheckRequest{Service: "api"})
	if err != nil {
		return domain.BackendHealth{}, fmt.Errorf("inference: health: %w", err)
	}
	return domain.BackendHealth{
		Status:      resp.Status,
		Version:     resp.Version,
		ModelLoaded: resp.ModelLoaded,
		Uptime:      resp.Uptime,
	}, nil
}

func toDecimal(f float64) (d decimal.Decimal, err error) {
	defer func() {
		if recover() != nil {
			err = fmt.Errorf("inference: %w: non-finite number", domain.ErrMalformedPayload)
		}
	}()
	return decimal.NewFromFloat(f).Round(2), nil
}
