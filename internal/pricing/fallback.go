// Package pricing holds the table-driven estimate used when the inference
// backend cannot answer. Everything here is pure and deterministic.
package pricing

import (
	"fmt"

	"phoneprice-gateway/internal/domain"

	"github.com/shopspring/decimal"
)

// FallbackConfidence marks a price as heuristic rather than model-derived.
const FallbackConfidence = 75.0

var (
	DefaultBasePrice           = decimal.NewFromInt(20000)
	DefaultStorageMultiplier   = decimal.RequireFromString("1.00")
	DefaultConditionMultiplier = decimal.RequireFromString("0.85")

	rangeSpread = decimal.RequireFromString("0.10")
)

// basePrices is keyed by catalog model id (series number), in TRY.
var basePrices = map[int]decimal.Decimal{
	8:  decimal.NewFromInt(9000),
	9:  decimal.NewFromInt(11000),
	10: decimal.NewFromInt(12500),
	11: decimal.NewFromInt(16000),
	12: decimal.NewFromInt(20000),
	13: decimal.NewFromInt(24000),
	14: decimal.NewFromInt(28000),
	15: decimal.NewFromInt(38000),
	16: decimal.NewFromInt(48000),
}

var storageMultipliers = map[int]decimal.Decimal{
	64:   decimal.RequireFromString("1.00"),
	128:  decimal.RequireFromString("1.15"),
	256:  decimal.RequireFromString("1.35"),
	512:  decimal.RequireFromString("1.60"),
	1024: decimal.RequireFromString("1.90"),
}

// Condition labels, best first.
const (
	ConditionExcellent = "Mükemmel"
	ConditionVeryGood  = "Çok İyi"
	ConditionGood      = "İyi"
	ConditionFair      = "Orta"
)

var conditionMultipliers = map[string]decimal.Decimal{
	ConditionExcellent: decimal.RequireFromString("1.00"),
	ConditionVeryGood:  decimal.RequireFromString("0.93"),
	ConditionGood:      decimal.RequireFromString("0.85"),
	ConditionFair:      decimal.RequireFromString("0.75"),
}

// Conditions returns the known condition labels, best first.
func Conditions() []string {
	return []string{ConditionExcellent, ConditionVeryGood, ConditionGood, ConditionFair}
}

// StorageTiers returns the known storage capacities in ascending order.
func StorageTiers() []int { return []int{64, 128, 256, 512, 1024} }

func BasePrice(modelID int) decimal.Decimal {
	if p, ok := basePrices[modelID]; ok {
		return p
	}
	return DefaultBasePrice
}

func StorageMultiplier(storageGB int) decimal.Decimal {
	if m, ok := storageMultipliers[storageGB]; ok {
		return m
	}
	return DefaultStorageMultiplier
}

func ConditionMultiplier(condition string) decimal.Decimal {
	if m, ok := conditionMultipliers[condition]; ok {
		return m
	}
	return DefaultConditionMultiplier
}

// ComputeFallback never fails: unknown keys take the documented defaults.
func ComputeFallback(modelID, storageGB int, condition string) domain.PredictionResult {
	price := BasePrice(modelID).
		Mul(StorageMultiplier(storageGB)).
		Mul(ConditionMultiplier(condition)).
		Round(0)
	variance := price.Mul(rangeSpread)

	return domain.PredictionResult{
		PredictedPrice:  price,
		ConfidenceScore: FallbackConfidence,
		PriceRange: domain.PriceRange{
			Min: price.Sub(variance).Round(0),
			Max: price.Add(variance).Round(0),
		},
		Status:  domain.StatusFallback,
		Message: fmt.Sprintf("heuristic estimate: %s TL", price.String()),
	}
}
