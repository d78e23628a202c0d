package application

import (
	"context"

	"phoneprice-gateway/internal/domain"

	"github.com/shopspring/decimal"
)

// RateSource is one entry of the ordered exchange-rate chain.
type RateSource interface {
	Name() string
	// FetchRate returns local units per one foreign unit.
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}

// SharedQuoteStore lets several gateway processes share the last live quote.
// Load returns domain.ErrNotFound when nothing is stored.
type SharedQuoteStore interface {
	Load(ctx context.Context) (domain.ExchangeQuote, error)
	Save(ctx context.Context, q domain.ExchangeQuote) error
}

type RateResolver interface {
	Resolve(ctx context.Context) domain.RateResolution
}

type InferenceClient interface {
	PredictPrice(ctx context.Context, req domain.InferenceRequest) (domain.PredictionResult, error)
	ModelInfo(ctx context.Context, modelID int) (domain.ModelInfo, error)
	Health(ctx context.Context) (domain.BackendHealth, error)
}

// Catalog is the read-only view of the externally owned catalog.
// LookupModel returns domain.ErrNotFound for unknown ids.
type Catalog interface {
	LookupModel(ctx context.Context, id int) (domain.PhoneModel, error)
	ListModels(ctx context.Context) ([]domain.PhoneModel, error)
	Conditions(ctx context.Context) ([]string, error)
}

type PredictionRecorder interface {
	Record(ctx context.Context, rec domain.PredictionRecord) error
}

// NoopRecorder drops records; used when no store is configured.
type NoopRecorder struct{}

func (NoopRecorder) Record(context.Context, domain.PredictionRecord) error { return nil }
