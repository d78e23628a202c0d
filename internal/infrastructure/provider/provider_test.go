package provider_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"phoneprice-gateway/internal/domain"
	"phoneprice-gateway/internal/infrastructure/httpx"
	"phoneprice-gateway/internal/infrastructure/provider"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func httpClient(resBody string, code int, seen *atomic.Value) *httpx.Client {
	return &httpx.Client{
		MaxElapsed: 300 * time.Millisecond,
		HTTP: &http.Client{
			Timeout: 2 * time.Second,
			Transport: roundTripFunc(func(r *http.Request) *http.Response {
				if seen != nil {
					seen.Store(r.URL.String())
				}
				return &http.Response{
					StatusCode: code,
					Body:       io.NopCloser(strings.NewReader(resBody)),
					Header:     make(http.Header),
					Request:    r,
				}
			}),
		},
	}
}

func requireRate(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestExchangeRateAPI_HappyPath(t *testing.T) {
	t.Parallel()
	var seen atomic.Value
	body := `{"base":"USD","date":"2025-01-01","rates":{"USD":1,"EUR":0.92,"TRY":34.5123}}`
	p := &provider.ExchangeRateAPI{Client: httpClient(body, 200, &seen)}

	rate, err := p.FetchRate(context.Background())
	require.NoError(t, err)
	requireRate(t, "34.5123", rate)
	require.Equal(t, provider.ExchangeRateAPIURL, seen.Load())
	require.Equal(t, "exchangerate-api", p.Name())
}

func TestExchangeRateAPI_Failures(t *testing.T) {
	t.Parallel()
	cases := map[string]struct {
		body string
		code int
	}{
		"missing field": {`{"rates":{"EUR":0.92}}`, 200},
		"zero rate":     {`{"rates":{"TRY":0}}`, 200},
		"negative rate": {`{"rates":{"TRY":-1}}`, 200},
		"not json":      {`<html>`, 200},
		"not found":     {`{}`, 404},
	}
	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := &provider.ExchangeRateAPI{Client: httpClient(tc.body, tc.code, nil)}
			_, err := p.FetchRate(context.Background())
			require.Error(t, err)
		})
	}

	p := &provider.ExchangeRateAPI{Client: httpClient(`{"rates":{"EUR":0.92}}`, 200, nil)}
	_, err := p.FetchRate(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestExchangeRateAPI_ServerErrorIsNotMalformed(t *testing.T) {
	t.Parallel()
	p := &provider.ExchangeRateAPI{Client: httpClient(`oops`, 502, nil)}
	_, err := p.FetchRate(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestFrankfurter_HappyPath(t *testing.T) {
	t.Parallel()
	var seen atomic.Value
	body := `{"amount":1.0,"base":"USD","date":"2025-01-01","rates":{"TRY":34.61}}`
	p := &provider.Frankfurter{Client: httpClient(body, 200, &seen)}

	rate, err := p.FetchRate(context.Background())
	require.NoError(t, err)
	requireRate(t, "34.61", rate)
	require.Equal(t, "https://api.frankfurter.app/latest?from=USD&to=TRY", seen.Load())
}

func TestFrankfurter_ScalesByAmount(t *testing.T) {
	t.Parallel()
	body := `{"amount":10,"base":"USD","rates":{"TRY":346.1}}`
	p := &provider.Frankfurter{Client: httpClient(body, 200, nil)}

	rate, err := p.FetchRate(context.Background())
	require.NoError(t, err)
	requireRate(t, "34.61", rate)
}

func TestFrankfurter_MissingRate(t *testing.T) {
	t.Parallel()
	p := &provider.Frankfurter{Client: httpClient(`{"amount":1,"rates":{}}`, 200, nil)}
	_, err := p.FetchRate(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedPayload)
}

const bulletin = `<?xml version="1.0" encoding="UTF-8"?>
<Tarih_Date Tarih="01.01.2025" Date="01/01/2025" Bulten_No="2025/1">
	<Currency CrossOrder="0" Kod="USD" CurrencyCode="USD">
		<Unit>1</Unit>
		<Isim>ABD DOLARI</Isim>
		<CurrencyName>US DOLLAR</CurrencyName>
		<ForexBuying>34,4500</ForexBuying>
		<ForexSelling>34,5123</ForexSelling>
	</Currency>
	<Currency CrossOrder="1" Kod="EUR" CurrencyCode="EUR">
		<Unit>1</Unit>
		<ForexSelling>37.1000</ForexSelling>
	</Currency>
</Tarih_Date>`

func TestTCMB_DecimalComma(t *testing.T) {
	t.Parallel()
	p := &provider.TCMB{Client: httpClient(bulletin, 200, nil)}

	rate, err := p.FetchRate(context.Background())
	require.NoError(t, err)
	requireRate(t, "34.5123", rate)
}

func TestTCMB_ThousandsSeparator(t *testing.T) {
	t.Parallel()
	for selling, want := range map[string]string{
		"1.234,5678": "1234.5678",
		"1,234.5678": "1234.5678",
		"1.234.567":  "1234567",
		"34,5":       "34.5",
		"34.5":       "34.5",
	} {
		doc := `<Tarih_Date><Currency Kod="USD"><ForexSelling>` + selling + `</ForexSelling></Currency></Tarih_Date>`
		p := &provider.TCMB{Client: httpClient(doc, 200, nil)}

		rate, err := p.FetchRate(context.Background())
		require.NoError(t, err, selling)
		requireRate(t, want, rate)
	}
}

func TestTCMB_OtherCurrency(t *testing.T) {
	t.Parallel()
	p := &provider.TCMB{Foreign: "EUR", Client: httpClient(bulletin, 200, nil)}

	rate, err := p.FetchRate(context.Background())
	require.NoError(t, err)
	requireRate(t, "37.1", rate)
}

func TestTCMB_MissingSellingRate(t *testing.T) {
	t.Parallel()
	doc := `<Tarih_Date><Currency Kod="USD"><ForexSelling></ForexSelling></Currency>
<Currency Kod="EUR"><ForexSelling>37.10</ForexSelling></Currency></Tarih_Date>`
	p := &provider.TCMB{Client: httpClient(doc, 200, nil)}

	_, err := p.FetchRate(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestStatic(t *testing.T) {
	t.Parallel()
	s := provider.NewStatic(decimal.RequireFromString("34.50"))
	rate, err := s.FetchRate(context.Background())
	require.NoError(t, err)
	requireRate(t, "34.50", rate)

	_, err = provider.NewStatic(decimal.Zero).FetchRate(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedPayload)
}
