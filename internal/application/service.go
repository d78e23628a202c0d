package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/pricing"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const tracerName = "phoneprice-gateway/application"

const (
	// GenericModelName is used when the catalog does not know the model id.
	GenericModelName        = "Apple iPhone 13"
	DefaultReleaseYear      = 2020
	DefaultInferenceTimeout = 5 * time.Second
)

type PredictionService struct {
	catalog   Catalog
	inference InferenceClient
	rates     RateResolver

	clock            Clock
	idgen            IDGen
	inferenceTimeout time.Duration
	log              *zap.Logger
}

type Option func(*PredictionService)

func WithClock(c Clock) Option { return func(s *PredictionService) { s.clock = c } }
func WithIDGen(g IDGen) Option { return func(s *PredictionService) { s.idgen = g } }
func WithInferenceTimeout(d time.Duration) Option {
	return func(s *PredictionService) { s.inferenceTimeout = d }
}
func WithLogger(l *zap.Logger) Option { return func(s *PredictionService) { s.log = l } }

// NewPredictionService wires the orchestrator. A nil inference client means
// every estimate comes from the fallback tables.
func NewPredictionService(catalog Catalog, inference InferenceClient, rates RateResolver, opts ...Option) *PredictionService {
	s := &PredictionService{
		catalog:   catalog,
		inference: inference,
		rates:     rates,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.idgen == nil {
		s.idgen = defaultIDGen{}
	}
	if s.inferenceTimeout <= 0 {
		s.inferenceTimeout = DefaultInferenceTimeout
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Predict always produces a result for a valid specification; only
// validation errors are returned.
func (s *PredictionService) Predict(ctx context.Context, spec domain.PhoneSpecification) (domain.ConvertedResult, error) {
	if err := spec.Validate(); err != nil {
		return domain.ConvertedResult{}, err
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "prediction.predict")
	defer span.End()

	req := s.inferenceRequest(ctx, spec)
	outcome := s.estimate(ctx, req)
	span.SetAttributes(attribute.String("pricing.path", string(outcome.Path)))

	conv := s.convert(outcome.Result.PredictedPrice, s.rates.Resolve(ctx))
	span.SetAttributes(attribute.String("rate.mode", string(conv.Mode)))

	return domain.ConvertedResult{
		Spec:        spec,
		ModelName:   req.ModelName,
		Prediction:  outcome.Result,
		PricingPath: outcome.Path,
		Conversion:  conv,
	}, nil
}

// Convert turns a local amount into the foreign currency.
func (s *PredictionService) Convert(ctx context.Context, amount decimal.Decimal) (domain.Conversion, error) {
	if !amount.IsPositive() {
		return domain.Conversion{}, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount.String())
	}
	return s.convert(amount, s.rates.Resolve(ctx)), nil
}

// NewRecord shapes a result for the persistence collaborator.
func (s *PredictionService) NewRecord(res domain.ConvertedResult) domain.PredictionRecord {
	return domain.PredictionRecord{
		ID:              s.idgen.NewID(),
		ModelID:         res.Spec.ModelID,
		RAMGB:           res.Spec.RAMGB,
		StorageGB:       res.Spec.StorageGB,
		Condition:       res.Spec.Condition,
		PredictedPrice:  res.Prediction.PredictedPrice,
		ConfidenceScore: res.Prediction.ConfidenceScore,
		PricingPath:     res.PricingPath,
		CreatedAt:       s.clock.Now(),
	}
}

func (s *PredictionService) convert(amount decimal.Decimal, res domain.RateResolution) domain.Conversion {
	return domain.Conversion{
		LocalAmount:   amount,
		ForeignAmount: amount.Div(res.Quote.Rate).Round(2),
		Quote:         res.Quote,
		Mode:          res.Mode,
		ConvertedAt:   s.clock.Now(),
	}
}

func (s *PredictionService) inferenceRequest(ctx context.Context, spec domain.PhoneSpecification) domain.InferenceRequest {
	name, year := GenericModelName, DefaultReleaseYear
	if s.catalog != nil {
		m, err := s.catalog.LookupModel(ctx, spec.ModelID)
		switch {
		case err == nil:
			name, year = m.Name, m.ReleaseYear
		case errors.Is(err, domain.ErrNotFound):
			s.log.Info("catalog.unknown_model", zap.Int("model_id", spec.ModelID))
		default:
			s.log.Warn("catalog.lookup_failed", zap.Int("model_id", spec.ModelID), zap.Error(err))
		}
	}
	if spec.ReleaseYear > 0 {
		year = spec.ReleaseYear
	}
	return domain.InferenceRequest{
		ModelID:     spec.ModelID,
		ModelName:   name,
		RAMGB:       spec.RAMGB,
		StorageGB:   spec.StorageGB,
		Condition:   spec.Condition,
		ReleaseYear: year,
	}
}

func (s *PredictionService) estimate(ctx context.Context, req domain.InferenceRequest) domain.PricingOutcome {
	var err error
	if s.inference == nil {
		err = errors.New("no inference client configured")
	} else {
		var res domain.PredictionResult
		res, err = s.remote(ctx, req)
		if err == nil {
			return domain.PricingOutcome{Path: domain.PricingPathRemote, Result: res}
		}
	}

	cause := fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	s.log.Warn("inference.fallback", zap.Int("model_id", req.ModelID), zap.Error(cause))
	return domain.PricingOutcome{
		Path:   domain.PricingPathFallback,
		Result: pricing.ComputeFallback(req.ModelID, req.StorageGB, req.Condition),
		Cause:  cause,
	}
}

func (s *PredictionService) remote(ctx context.Context, req domain.InferenceRequest) (domain.PredictionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.inferenceTimeout)
	defer cancel()

	res, err := s.inference.PredictPrice(ctx, req)
	if err != nil {
		return domain.PredictionResult{}, err
	}
	if res.Status != domain.StatusSuccess {
		return domain.PredictionResult{}, fmt.Errorf("remote status %q: %s", res.Status, res.Message)
	}
	if !res.PredictedPrice.IsPositive() {
		return domain.PredictionResult{}, fmt.Errorf("%w: predicted price %s", domain.ErrMalformedPayload, res.PredictedPrice.String())
	}
	return res, nil
}
