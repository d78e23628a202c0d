// Package protocol renders one converted result into the wire documents the
// gateway serves: the JSON contract and the legacy SOAP envelope.
package protocol

import (
	"errors"
	"time"

	"phoneprice-gateway/internal/domain"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type PredictionDocument struct {
	Success bool           `json:"success"`
	Data    PredictionData `json:"data"`
}

type PredictionData struct {
	Prediction    PredictionBody `json:"prediction"`
	ExchangeRate  float64        `json:"exchange_rate"`
	Input         InputEcho      `json:"input"`
	Timestamp     string         `json:"timestamp"`
	PricingSource string         `json:"pricing_source"`
	RateSource    string         `json:"rate_source"`
	Degraded      bool           `json:"degraded"`
}

type PredictionBody struct {
	PriceTL    float64    `json:"price_tl"`
	PriceUSD   float64    `json:"price_usd"`
	Confidence float64    `json:"confidence"`
	Range      PriceRange `json:"range"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type InputEcho struct {
	ModelID     int    `json:"model_id"`
	ModelName   string `json:"model_name"`
	RAMGB       int    `json:"ram_gb"`
	StorageGB   int    `json:"storage_gb"`
	Condition   string `json:"condition"`
	ReleaseYear int    `json:"release_year,omitempty"`
}

// ErrorDocument is the JSON body of every non-2xx answer.
type ErrorDocument struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func ToJSON(res domain.ConvertedResult) PredictionDocument {
	p := res.Prediction
	return PredictionDocument{
		Success: true,
		Data: PredictionData{
			Prediction: PredictionBody{
				PriceTL:    p.PredictedPrice.InexactFloat64(),
				PriceUSD:   res.Conversion.ForeignAmount.InexactFloat64(),
				Confidence: p.ConfidenceScore,
				Range: PriceRange{
					Min: p.PriceRange.Min.InexactFloat64(),
					Max: p.PriceRange.Max.InexactFloat64(),
				},
			},
			ExchangeRate: res.Conversion.Quote.Rate.InexactFloat64(),
			Input: InputEcho{
				ModelID:     res.Spec.ModelID,
				ModelName:   res.ModelName,
				RAMGB:       res.Spec.RAMGB,
				StorageGB:   res.Spec.StorageGB,
				Condition:   res.Spec.Condition,
				ReleaseYear: res.Spec.ReleaseYear,
			},
			Timestamp:     timestamp(res.Conversion.ConvertedAt),
			PricingSource: string(res.PricingPath),
			RateSource:    res.Conversion.Quote.Source,
			Degraded:      res.Degraded(),
		},
	}
}

func ToJSONError(err error) ErrorDocument {
	doc := ErrorDocument{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		doc.Missing = verr.Missing
	}
	return doc
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(isoMillis)
}
