package httpserver

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"phoneprice-gateway/internal/adapters/protocol"
	"phoneprice-gateway/internal/domain"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// convertInput holds whatever the caller sent; nil means absent.
type convertInput struct {
	AmountTL  *string `json:"-"`
	ModelID   *int    `json:"model_id"`
	RAMGB     *int    `json:"ram_gb"`
	StorageGB *int    `json:"storage_gb"`
	Condition *string `json:"condition"`

	Amount *decimal.Decimal `json:"amount_tl"`
}

type convertEnvelope struct {
	Body struct {
		Request struct {
			AmountTL  *string `xml:"AmountTL"`
			ModelID   *int    `xml:"ModelId"`
			RAMGB     *int    `xml:"RamGb"`
			StorageGB *int    `xml:"StorageGb"`
			Condition *string `xml:"Condition"`
		} `xml:"ConvertCurrency"`
	} `xml:"Body"`
}

func (in convertInput) hasSpec() bool {
	return in.ModelID != nil || in.RAMGB != nil || in.StorageGB != nil || in.Condition != nil
}

func (in convertInput) spec() domain.PhoneSpecification {
	var spec domain.PhoneSpecification
	if in.ModelID != nil {
		spec.ModelID = *in.ModelID
	}
	if in.RAMGB != nil {
		spec.RAMGB = *in.RAMGB
	}
	if in.StorageGB != nil {
		spec.StorageGB = *in.StorageGB
	}
	if in.Condition != nil {
		spec.Condition = *in.Condition
	}
	return spec
}

// SOAPConvert answers the legacy conversion call. A bare amount is converted
// directly; a phone specification is priced first and its price converted.
func (s *Server) SOAPConvert(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, s.soapConvert(r))
}

func (s *Server) soapConvert(r *http.Request) protocol.LegacyDocument {
	in, err := parseConvertInput(r)
	if err != nil {
		return protocol.FaultEnvelope(err)
	}

	if in.Amount != nil {
		conv, err := s.predictor.Convert(r.Context(), *in.Amount)
		if err != nil {
			return protocol.FaultEnvelope(err)
		}
		return protocol.ToLegacyEnvelope(domain.ConvertedResult{Conversion: conv})
	}
	if !in.hasSpec() {
		return protocol.FaultEnvelope(fmt.Errorf("%w: amount_tl is required", domain.ErrInvalidAmount))
	}

	res, err := s.predictor.Predict(r.Context(), in.spec())
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.logFor(r).Error("soap_predict_failed", zap.Error(err))
		}
		return protocol.FaultEnvelope(err)
	}
	s.record(r.Context(), res)
	return protocol.ToLegacyEnvelope(res)
}

func parseConvertInput(r *http.Request) (convertInput, error) {
	var in convertInput
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	body := io.LimitReader(r.Body, maxBody)

	switch ct {
	case "application/json":
		if err := json.NewDecoder(body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
			return in, fmt.Errorf("%w: invalid JSON body", domain.ErrValidation)
		}
	case "text/xml", "application/xml", "application/soap+xml":
		var env convertEnvelope
		if err := xml.NewDecoder(body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
			return in, fmt.Errorf("%w: invalid SOAP request", domain.ErrValidation)
		}
		req := env.Body.Request
		in.AmountTL, in.ModelID, in.RAMGB, in.StorageGB, in.Condition = req.AmountTL, req.ModelID, req.RAMGB, req.StorageGB, req.Condition
	}

	// query string and url-encoded form fill whatever the body left out
	if err := r.ParseForm(); err != nil {
		return in, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := bindForm(r.Form, &in); err != nil {
		return in, err
	}

	if in.Amount == nil && in.AmountTL != nil {
		amount, err := decimal.NewFromString(*in.AmountTL)
		if err != nil {
			return in, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, *in.AmountTL)
		}
		in.Amount = &amount
	}
	return in, nil
}

func bindForm(vals url.Values, in *convertInput) error {
	binds := []struct {
		name string
		set  bool
		dst  any
	}{
		{"amount_tl", in.AmountTL != nil || in.Amount != nil, &in.AmountTL},
		{"model_id", in.ModelID != nil, &in.ModelID},
		{"ram_gb", in.RAMGB != nil, &in.RAMGB},
		{"storage_gb", in.StorageGB != nil, &in.StorageGB},
		{"condition", in.Condition != nil, &in.Condition},
	}
	for _, b := range binds {
		if b.set {
			continue
		}
		if err := runtime.BindQueryParameter("form", true, false, b.name, vals, b.dst); err != nil {
			if b.name == "amount_tl" {
				return fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
			}
			return fmt.Errorf("%w: %s: %v", domain.ErrValidation, b.name, err)
		}
	}
	return nil
}

func writeEnvelope(w http.ResponseWriter, doc protocol.LegacyDocument) {
	w.Header().Set("Content-Type", protocol.ContentTypeXML)
	w.WriteHeader(doc.HTTPStatus)
	_, _ = w.Write(doc.Body)
}
