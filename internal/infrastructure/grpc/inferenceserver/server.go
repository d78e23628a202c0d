// Package inferenceserver is a stand-in for the model-serving backend. It
// answers the PricePrediction contract from the heuristic tables so the
// gateway can be run and exercised without the real model.
package inferenceserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/infrastructure/grpc/inferencepb"
	"phoneprice-gateway/internal/pricing"

	"go.uber.org/zap"
)

const (
	StubConfidence = 60.0
	Version        = "stub-1.0.0"
)

// ramByModel is the factory RAM per catalog id.
var ramByModel = map[int]int32{8: 2, 9: 3, 10: 3, 11: 4, 12: 4, 13: 4, 14: 6, 15: 6, 16: 8}

type Server struct {
	Catalog application.Catalog
	Log     *zap.Logger
	Clock   func() time.Time

	started time.Time
}

var _ inferencepb.PricePredictionServer = (*Server)(nil)

func NewServer(catalog application.Catalog, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Catalog: catalog, Log: log, Clock: time.Now, started: time.Now()}
}

func (s *Server) PredictPrice(ctx context.Context, req inferencepb.PriceRequest) (inferencepb.PriceResponse, error) {
	log := s.Log.With(zap.Int32("model_id", req.ModelID), zap.String("model_name", req.ModelName))

	spec := domain.PhoneSpecification{
		ModelID:   int(req.ModelID),
		RAMGB:     int(req.RAMGB),
		StorageGB: int(req.StorageGB),
		Condition: req.Condition,
	}
	if err := spec.Validate(); err != nil {
		log.Warn("grpc_predict.invalid", zap.Error(err))
		return inferencepb.PriceResponse{
			PriceRange: &inferencepb.PriceRange{},
			Status:     "error",
			Message:    err.Error(),
		}, nil
	}

	res := pricing.ComputeFallback(spec.ModelID, spec.StorageGB, spec.Condition)
	price := res.PredictedPrice.InexactFloat64()
	log.Info("grpc_predict.success", zap.Float64("price", price))
	return inferencepb.PriceResponse{
		PredictedPrice:  price,
		ConfidenceScore: StubConfidence,
		PriceRange: &inferencepb.PriceRange{
			MinPrice: res.PriceRange.Min.InexactFloat64(),
			MaxPrice: res.PriceRange.Max.InexactFloat64(),
		},
		Status:  domain.StatusSuccess,
		Message: fmt.Sprintf("estimate: %s TL", res.PredictedPrice.String()),
	}, nil
}

func (s *Server) GetModelInfo(ctx context.Context, req inferencepb.ModelInfoRequest) (inferencepb.ModelInfoResponse, error) {
	id := int(req.ModelID)
	name, year := application.GenericModelName, int32(application.DefaultReleaseYear)
	if s.Catalog != nil {
		m, err := s.Catalog.LookupModel(ctx, id)
		switch {
		case err == nil:
			name, year = m.Name, int32(m.ReleaseYear)
		case !errors.Is(err, domain.ErrNotFound):
			s.Log.Warn("grpc_model_info.catalog_failed", zap.Int("model_id", id), zap.Error(err))
		}
	}
	storage := []int32{64, 128, 256}
	if id >= 12 {
		storage = []int32{128, 256, 512, 1024}
	}
	ram, ok := ramByModel[id]
	if !ok {
		ram = 4
	}
	return inferencepb.ModelInfoResponse{
		ModelName:        name,
		ReleaseYear:      year,
		AvailableStorage: storage,
		RAMGB:            ram,
		IsPro:            strings.Contains(name, "Pro"),
	}, nil
}

func (s *Server) HealthCheck(context.Context, inferencepb.HealthCheckRequest) (inferencepb.HealthCheckResponse, error) {
	now := time.Now
	if s.Clock != nil {
		now = s.Clock
	}
	return inferencepb.HealthCheckResponse{
		Status:      "healthy",
		Version:     Version,
		ModelLoaded: true,
		Uptime:      now().Sub(s.started).Truncate(time.Second).String(),
	}, nil
}
