package domain

import "regexp"

type Pair string

var SupportedCurrency = map[string]bool{
	"USD": true,
	"EUR": true,
	"TRY": true,
}

var pairRe = regexp.MustCompile(`^[A-Z]{3}/[A-Z]{3}$`)

// NewPair builds "FOREIGN/LOCAL", i.e. the pair whose price is local units per foreign unit.
func NewPair(foreign, local string) Pair { return Pair(foreign + "/" + local) }

func ValidatePair(p string) bool {
	if !pairRe.MatchString(p) {
		return false
	}
	base := p[:3]
	quote := p[4:]
	return SupportedCurrency[base] && SupportedCurrency[quote] && base != quote
}

// Base is the foreign currency of the pair.
func (p Pair) Base() string {
	if len(p) != 7 {
		return ""
	}
	return string(p[:3])
}

// Quote is the local currency of the pair.
func (p Pair) Quote() string {
	if len(p) != 7 {
		return ""
	}
	return string(p[4:])
}
