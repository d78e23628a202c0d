package provider

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"phoneprice-gateway/internal/application"
	"phoneprice-gateway/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const (
	TCMBName = "tcmb"
	TCMBURL  = "https://www.tcmb.gov.tr/kurlar/today.xml"
)

// TCMB scrapes the central bank's daily bulletin. Only the ForexSelling of
// the foreign currency's block is read; the rest of the document is ignored.
type TCMB struct {
	URL     string
	Foreign string
	Client  *httpx.Client
}

var _ application.RateSource = (*TCMB)(nil)

var forexSellingRe = regexp.MustCompile(`<ForexSelling>\s*([\d.,]+)\s*</ForexSelling>`)

func currencyBlock(code string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<Currency[^>]*Kod="` + regexp.QuoteMeta(code) + `"[^>]*>(.*?)</Currency>`)
}

var usdBlockRe = currencyBlock(DefaultForeign)

func (p *TCMB) Name() string { return TCMBName }

func (p *TCMB) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, or(p.URL, TCMBURL), nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: create request: %w", TCMBName, err)
	}
	req.Header.Set("Accept", "application/xml")
	raw, err := client(p.Client).DoRaw(ctx, req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", TCMBName, err)
	}
	return parseTCMB(raw, or(p.Foreign, DefaultForeign))
}

func parseTCMB(raw []byte, code string) (decimal.Decimal, error) {
	blockRe := usdBlockRe
	if code != DefaultForeign {
		blockRe = currencyBlock(code)
	}
	block := blockRe.FindSubmatch(raw)
	if block == nil {
		return decimal.Decimal{}, malformed(TCMBName, "no Currency element for %s", code)
	}
	m := forexSellingRe.FindSubmatch(block[1])
	if m == nil {
		return decimal.Decimal{}, malformed(TCMBName, "no ForexSelling for %s", code)
	}
	rate, err := decimal.NewFromString(normalizeNumber(string(m[1])))
	if err != nil {
		return decimal.Decimal{}, malformed(TCMBName, "bad rate %q", m[1])
	}
	return checkRate(TCMBName, rate)
}

// normalizeNumber rewrites a localized number to the plain "1234.5678" form.
// With both separators present the last one is the decimal point; a
// separator repeated alone is a thousands separator.
func normalizeNumber(s string) string {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		}
		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}
