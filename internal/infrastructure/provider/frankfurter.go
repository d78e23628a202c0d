package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const (
	FrankfurterName = "frankfurter"
	FrankfurterURL  = "https://api.frankfurter.app/latest"
)

type Frankfurter struct {
	URL     string
	Foreign string
	Local   string
	Client  *httpx.Client
}

var _ application.RateSource = (*Frankfurter)(nil)

type frankfurterResp struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

func (p *Frankfurter) Name() string { return FrankfurterName }

func (p *Frankfurter) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	u, err := url.Parse(or(p.URL, FrankfurterURL))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: invalid url: %w", FrankfurterName, err)
	}
	foreign, local := or(p.Foreign, DefaultForeign), or(p.Local, DefaultLocal)
	q := u.Query()
	if q.Get("from") == "" {
		q.Set("from", foreign)
	}
	if q.Get("to") == "" {
		q.Set("to", local)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: create request: %w", FrankfurterName, err)
	}
	var body frankfurterResp
	if err := client(p.Client).DoJSON(ctx, req, &body); err != nil {
		var de *httpx.DecodeError
		if errors.As(err, &de) {
			return decimal.Decimal{}, malformed(FrankfurterName, "%v", de.Err)
		}
		return decimal.Decimal{}, fmt.Errorf("%s: %w", FrankfurterName, err)
	}
	rate, ok := body.Rates[local]
	if !ok {
		return decimal.Decimal{}, malformed(FrankfurterName, "missing rate for %s", local)
	}
	// amount defaults to 1; anything else scales the quoted rate
	if body.Amount.IsPositive() && !body.Amount.Equal(decimal.NewFromInt(1)) {
		rate = rate.Div(body.Amount)
	}
	return checkRate(FrankfurterName, rate)
}
