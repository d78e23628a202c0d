package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const (
	ExchangeRateAPIName = "exchangerate-api"
	ExchangeRateAPIURL  = "https://api.exchangerate-api.com/v4/latest/USD"
)

// ExchangeRateAPI reads the local currency out of the "latest" table keyed by
// the foreign currency.
type ExchangeRateAPI struct {
	URL    string
	Local  string
	Client *httpx.Client
}

var _ application.RateSource = (*ExchangeRateAPI)(nil)

type latestResp struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (p *ExchangeRateAPI) Name() string { return ExchangeRateAPIName }

func (p *ExchangeRateAPI) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, or(p.URL, ExchangeRateAPIURL), nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: create request: %w", ExchangeRateAPIName, err)
	}
	var body latestResp
	if err := client(p.Client).DoJSON(ctx, req, &body); err != nil {
		var de *httpx.DecodeError
		if errors.As(err, &de) {
			return decimal.Decimal{}, malformed(ExchangeRateAPIName, "%v", de.Err)
		}
		return decimal.Decimal{}, fmt.Errorf("%s: %w", ExchangeRateAPIName, err)
	}
	local := or(p.Local, DefaultLocal)
	rate, ok := body.Rates[local]
	if !ok {
		return decimal.Decimal{}, malformed(ExchangeRateAPIName, "missing rate for %s", local)
	}
	return checkRate(ExchangeRateAPIName, rate)
}
