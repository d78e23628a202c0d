package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnsupportedPair     = errors.New("unsupported pair")
	ErrValidation          = errors.New("validation failed")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUpstreamUnavailable = errors.New("inference backend unavailable")
	ErrSourceExhausted     = errors.New("all exchange rate sources failed")
	ErrMalformedPayload    = errors.New("malformed upstream payload")
	ErrProtocolFault       = errors.New("protocol fault")
)

// ValidationError lists the required specification fields that were absent.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
