package provider

import (
	"context"

	"phoneprice-gateway/internal/application"

	"github.com/shopspring/decimal"
)

var _ application.RateSource = (*Static)(nil)

// Static always answers the same rate. Used for local runs without network.
type Static struct {
	Label string
	Rate  decimal.Decimal
}

func NewStatic(rate decimal.Decimal) *Static { return &Static{Label: "static", Rate: rate} }

func (s *Static) Name() string { return or(s.Label, "static") }

func (s *Static) FetchRate(context.Context) (decimal.Decimal, error) {
	return checkRate(s.Name(), s.Rate)
}
