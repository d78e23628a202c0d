package application

import (
	"context"
	"errors"
	"time"

	"phoneprice-gateway/internal/domain"

	"go.uber.org/zap"
)

// CatalogService answers the read-only catalog and backend-status queries of
// the gateway surface.
type CatalogService struct {
	catalog   Catalog
	inference InferenceClient
	timeout   time.Duration
	log       *zap.Logger
}

func NewCatalogService(catalog Catalog, inference InferenceClient, timeout time.Duration, log *zap.Logger) *CatalogService {
	if timeout <= 0 {
		timeout = DefaultInferenceTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{catalog: catalog, inference: inference, timeout: timeout, log: log}
}

func (s *CatalogService) Models(ctx context.Context) ([]domain.PhoneModel, error) {
	return s.catalog.ListModels(ctx)
}

func (s *CatalogService) Conditions(ctx context.Context) ([]string, error) {
	return s.catalog.Conditions(ctx)
}

// Model returns the catalog entry plus the backend's metadata when the
// backend answers; info is nil otherwise.
func (s *CatalogService) Model(ctx context.Context, id int) (domain.PhoneModel, *domain.ModelInfo, error) {
	m, err := s.catalog.LookupModel(ctx, id)
	if err != nil {
		return domain.PhoneModel{}, nil, err
	}
	if s.inference == nil {
		return m, nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	info, err := s.inference.ModelInfo(ctx, id)
	if err != nil {
		s.log.Info("inference.model_info_unavailable", zap.Int("model_id", id), zap.Error(err))
		return m, nil, nil
	}
	return m, &info, nil
}

// BackendHealth probes the inference backend. The error is
// domain.ErrUpstreamUnavailable when no backend is configured or reachable.
func (s *CatalogService) BackendHealth(ctx context.Context) (domain.BackendHealth, error) {
	if s.inference == nil {
		return domain.BackendHealth{}, domain.ErrUpstreamUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	h, err := s.inference.Health(ctx)
	if err != nil {
		return domain.BackendHealth{}, errors.Join(domain.ErrUpstreamUnavailable, err)
	}
	return h, nil
}
