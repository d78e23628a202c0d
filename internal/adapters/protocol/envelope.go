package protocol

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"

	"phoneprice-gateway/internal/domain"
)

const (
	SOAPEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	ServiceNS      = "http://iphone-price-prediction.com/soap"

	FaultClient = "soap:Client"
	FaultServer = "soap:Server"

	StatusSuccess  = "success"
	StatusDegraded = "degraded"

	ContentTypeXML = "text/xml; charset=utf-8"
)

// lastResort is served if even the fault cannot be marshalled.
var lastResort = []byte(xml.Header + `<soap:Envelope xmlns:soap="` + SOAPEnvelopeNS + `"><soap:Body><soap:Fault>` +
	`<faultcode>` + FaultServer + `</faultcode><faultstring>internal error</faultstring></soap:Fault></soap:Body></soap:Envelope>`)

// LegacyDocument is a rendered envelope plus the HTTP status it must travel with.
type LegacyDocument struct {
	HTTPStatus int
	Fault      bool
	Body       []byte
}

type Envelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    Body     `xml:"soap:Body"`
}

type Body struct {
	Response *ConvertCurrencyResponse `xml:"ConvertCurrencyResponse,omitempty"`
	Fault    *Fault                   `xml:"soap:Fault,omitempty"`
}

type ConvertCurrencyResponse struct {
	NS     string `xml:"xmlns,attr"`
	Result Result `xml:"Result"`
}

type Result struct {
	AmountTL     string `xml:"AmountTL"`
	AmountUSD    string `xml:"AmountUSD"`
	ExchangeRate string `xml:"ExchangeRate"`
	Timestamp    string `xml:"Timestamp"`
	Status       string `xml:"Status"`
}

type Fault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

// ToLegacyEnvelope renders the conversion part of res. Anything that keeps a
// valid success document from being built becomes a fault document instead.
func ToLegacyEnvelope(res domain.ConvertedResult) LegacyDocument {
	conv := res.Conversion
	if !conv.LocalAmount.IsPositive() {
		return FaultEnvelope(fmt.Errorf("%w: %s", domain.ErrInvalidAmount, conv.LocalAmount.String()))
	}
	if !conv.Quote.Rate.IsPositive() {
		return FaultEnvelope(fmt.Errorf("%w: non-positive exchange rate", domain.ErrProtocolFault))
	}

	status := StatusSuccess
	if res.Degraded() {
		status = StatusDegraded
	}
	env := Envelope{
		SoapNS: SOAPEnvelopeNS,
		Body: Body{Response: &ConvertCurrencyResponse{
			NS: ServiceNS,
			Result: Result{
				AmountTL:     conv.LocalAmount.StringFixed(2),
				AmountUSD:    conv.ForeignAmount.StringFixed(2),
				ExchangeRate: conv.Quote.Rate.String(),
				Timestamp:    timestamp(conv.ConvertedAt),
				Status:       status,
			},
		}},
	}
	out, err := marshal(env)
	if err != nil {
		return FaultEnvelope(fmt.Errorf("%w: %v", domain.ErrProtocolFault, err))
	}
	return LegacyDocument{HTTPStatus: http.StatusOK, Body: out}
}

// FaultEnvelope always yields a well-formed fault with HTTP 500.
func FaultEnvelope(err error) LegacyDocument {
	if err == nil {
		err = domain.ErrProtocolFault
	}
	env := Envelope{
		SoapNS: SOAPEnvelopeNS,
		Body:   Body{Fault: &Fault{Code: faultCode(err), String: err.Error()}},
	}
	out, merr := marshal(env)
	if merr != nil {
		out = lastResort
	}
	return LegacyDocument{HTTPStatus: http.StatusInternalServerError, Fault: true, Body: out}
}

func faultCode(err error) string {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrInvalidAmount) {
		return FaultClient
	}
	return FaultServer
}

func marshal(env Envelope) ([]byte, error) {
	out, err := xml.MarshalIndent(env, "", "    ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
