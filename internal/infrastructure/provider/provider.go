// Package provider holds the exchange-rate sources walked by the resolver.
package provider

import (
	"fmt"

	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const (
	DefaultForeign = "USD"
	DefaultLocal   = "TRY"
)

func client(c *httpx.Client) *httpx.Client {
	if c == nil {
		return &httpx.Client{}
	}
	return c
}

func malformed(source, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", source, domain.ErrMalformedPayload, fmt.Sprintf(format, args...))
}

func checkRate(source string, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Decimal{}, malformed(source, "non-positive rate %s", rate.String())
	}
	return rate, nil
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
