package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Conversion carries the quote it was computed with, so ForeignAmount always
// equals round2(LocalAmount / Quote.Rate).
type Conversion struct {
	LocalAmount   decimal.Decimal
	ForeignAmount decimal.Decimal
	Quote         ExchangeQuote
	Mode          RateMode
	ConvertedAt   time.Time
}

// ConvertedResult is the request-scoped outcome of one estimation.
type ConvertedResult struct {
	Spec        PhoneSpecification
	ModelName   string
	Prediction  PredictionResult
	PricingPath PricingPath
	Conversion  Conversion
}

// Degraded reports whether any fallback path contributed to the result.
func (r ConvertedResult) Degraded() bool {
	return r.PricingPath == PricingPathFallback || r.Conversion.Mode.Degraded()
}
