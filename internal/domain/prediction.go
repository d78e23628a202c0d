package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusSuccess  = "success"
	StatusFallback = "fallback"
)

type PriceRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// PredictionResult is produced once per request by exactly one pricing path.
type PredictionResult struct {
	PredictedPrice  decimal.Decimal
	ConfidenceScore float64
	PriceRange      PriceRange
	Status          string
	Message         string
}

// PricingPath names the branch that produced a PredictionResult.
type PricingPath string

const (
	PricingPathRemote   PricingPath = "model"
	PricingPathFallback PricingPath = "fallback"
)

// PricingOutcome is either a remote result or a fallback result; Cause is set
// only on the fallback branch and records why the remote call was abandoned.
type PricingOutcome struct {
	Path   PricingPath
	Result PredictionResult
	Cause  error
}

// InferenceRequest is the fixed-shape request sent to the inference backend.
type InferenceRequest struct {
	ModelID     int
	ModelName   string
	RAMGB       int
	StorageGB   int
	Condition   string
	ReleaseYear int
}

// PredictionRecord is what the gateway hands to the persistence collaborator.
type PredictionRecord struct {
	ID              string
	ModelID         int
	RAMGB           int
	StorageGB       int
	Condition       string
	PredictedPrice  decimal.Decimal
	ConfidenceScore float64
	PricingPath     PricingPath
	CreatedAt       time.Time
}
