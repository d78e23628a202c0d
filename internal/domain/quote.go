package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceDefault identifies the hardcoded rate used when no source ever answered.
const SourceDefault = "default"

// ExchangeQuote is an immutable snapshot: Rate local units per one foreign unit,
// taken from Source at FetchedAt.
type ExchangeQuote struct {
	Pair      Pair
	Rate      decimal.Decimal
	FetchedAt time.Time
	Source    string
}

func (q ExchangeQuote) Age(now time.Time) time.Duration { return now.Sub(q.FetchedAt) }

// RateMode tells how a resolution obtained its quote.
type RateMode string

const (
	RateModeLive    RateMode = "live"
	RateModeCached  RateMode = "cached"
	RateModeShared  RateMode = "shared"
	RateModeStale   RateMode = "stale"
	RateModeDefault RateMode = "default"
)

// Degraded reports whether the quote came from a fallback path.
func (m RateMode) Degraded() bool { return m == RateModeStale || m == RateModeDefault }

type RateResolution struct {
	Quote ExchangeQuote
	Mode  RateMode
}
