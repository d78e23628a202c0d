package protocol

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"phoneprice-gateway/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleResult() domain.ConvertedResult {
	return domain.ConvertedResult{
		Spec:      domain.PhoneSpecification{ModelID: 14, RAMGB: 6, StorageGB: 256, Condition: "İyi"},
		ModelName: "Apple iPhone 14",
		Prediction: domain.PredictionResult{
			PredictedPrice:  d("41000"),
			ConfidenceScore: 82.5,
			PriceRange:      domain.PriceRange{Min: d("38000"), Max: d("44000")},
			Status:          domain.StatusSuccess,
		},
		PricingPath: domain.PricingPathRemote,
		Conversion: domain.Conversion{
			LocalAmount:   d("41000"),
			ForeignAmount: d("1188.41"),
			Quote:         domain.ExchangeQuote{Rate: d("34.50"), FetchedAt: at, Source: "frankfurter"},
			Mode:          domain.RateModeLive,
			ConvertedAt:   at,
		},
	}
}

type parsedEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Response *struct {
			XMLName xml.Name
			Result  Result `xml:"Result"`
		} `xml:"ConvertCurrencyResponse"`
		Fault *Fault `xml:"Fault"`
	} `xml:"Body"`
}

func parse(t *testing.T, b []byte) parsedEnvelope {
	t.Helper()
	var env parsedEnvelope
	require.NoError(t, xml.Unmarshal(b, &env))
	require.Equal(t, SOAPEnvelopeNS, env.XMLName.Space)
	return env
}

func TestToJSON(t *testing.T) {
	doc := ToJSON(sampleResult())
	require.True(t, doc.Success)
	require.Equal(t, 82.5, doc.Data.Prediction.Confidence)
	require.Equal(t, 41000.0, doc.Data.Prediction.PriceTL)
	require.Equal(t, 1188.41, doc.Data.Prediction.PriceUSD)
	require.Equal(t, 38000.0, doc.Data.Prediction.Range.Min)
	require.Equal(t, 34.5, doc.Data.ExchangeRate)
	require.Equal(t, "Apple iPhone 14", doc.Data.Input.ModelName)
	require.Equal(t, "2025-03-01T10:30:00.000Z", doc.Data.Timestamp)
	require.Equal(t, "model", doc.Data.PricingSource)
	require.Equal(t, "frankfurter", doc.Data.RateSource)
	require.False(t, doc.Data.Degraded)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	data := generic["data"].(map[string]any)
	pred := data["prediction"].(map[string]any)
	require.Contains(t, pred, "range")
	require.Contains(t, data, "exchange_rate")
	require.NotContains(t, data["input"].(map[string]any), "release_year")
}

func TestToJSON_DegradedFlag(t *testing.T) {
	res := sampleResult()
	res.Conversion.Mode = domain.RateModeDefault
	require.True(t, ToJSON(res).Data.Degraded)
}

func TestToJSONError_ListsMissingFields(t *testing.T) {
	doc := ToJSONError(&domain.ValidationError{Missing: []string{"ram_gb", "condition"}})
	require.False(t, doc.Success)
	require.Equal(t, []string{"ram_gb", "condition"}, doc.Missing)
	require.Contains(t, doc.Error, "ram_gb")
}

func TestToLegacyEnvelope_Success(t *testing.T) {
	doc := ToLegacyEnvelope(sampleResult())
	require.Equal(t, http.StatusOK, doc.HTTPStatus)
	require.False(t, doc.Fault)
	require.True(t, strings.HasPrefix(string(doc.Body), `<?xml version="1.0" encoding="UTF-8"?>`))

	env := parse(t, doc.Body)
	require.Nil(t, env.Body.Fault)
	require.NotNil(t, env.Body.Response)
	require.Equal(t, ServiceNS, env.Body.Response.XMLName.Space)
	r := env.Body.Response.Result
	require.Equal(t, "41000.00", r.AmountTL)
	require.Equal(t, "1188.41", r.AmountUSD)
	require.Equal(t, "34.5", r.ExchangeRate)
	require.Equal(t, "2025-03-01T10:30:00.000Z", r.Timestamp)
	require.Equal(t, StatusSuccess, r.Status)
}

func TestToLegacyEnvelope_DegradedStatus(t *testing.T) {
	res := sampleResult()
	res.PricingPath = domain.PricingPathFallback
	env := parse(t, ToLegacyEnvelope(res).Body)
	require.Equal(t, StatusDegraded, env.Body.Response.Result.Status)
}

func TestToLegacyEnvelope_NonPositiveAmountIsFault(t *testing.T) {
	for _, amount := range []string{"0", "-10"} {
		res := sampleResult()
		res.Conversion.LocalAmount = d(amount)
		doc := ToLegacyEnvelope(res)

		require.True(t, doc.Fault)
		require.GreaterOrEqual(t, doc.HTTPStatus, 300)
		require.NotContains(t, string(doc.Body), "ConvertCurrencyResponse")

		env := parse(t, doc.Body)
		require.Nil(t, env.Body.Response)
		require.NotNil(t, env.Body.Fault)
		require.Equal(t, FaultClient, env.Body.Fault.Code)
		require.Contains(t, env.Body.Fault.String, "invalid amount")
	}
}

func TestToLegacyEnvelope_NonPositiveRateIsServerFault(t *testing.T) {
	res := sampleResult()
	res.Conversion.Quote.Rate = decimal.Zero
	doc := ToLegacyEnvelope(res)

	require.Equal(t, http.StatusInternalServerError, doc.HTTPStatus)
	env := parse(t, doc.Body)
	require.Equal(t, FaultServer, env.Body.Fault.Code)
}

func TestFaultEnvelope_EscapesMessage(t *testing.T) {
	doc := FaultEnvelope(errors.New(`bad <input> & "quotes"`))
	env := parse(t, doc.Body)
	require.Equal(t, `bad <input> & "quotes"`, env.Body.Fault.String)
	require.Equal(t, FaultServer, env.Body.Fault.Code)

	doc = FaultEnvelope(nil)
	require.True(t, doc.Fault)
	parse(t, doc.Body)
}

func TestFaultEnvelope_ValidationIsClientFault(t *testing.T) {
	doc := FaultEnvelope(&domain.ValidationError{Missing: []string{"model_id"}})
	env := parse(t, doc.Body)
	require.Equal(t, FaultClient, env.Body.Fault.Code)
	require.Equal(t, "missing required fields: model_id", env.Body.Fault.String)
}
