package rates

import "fmt"

// Currency is an ISO 4217 code from the fixed set supported by the app.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	CHF Currency = "CHF"
	CNY Currency = "CNY"
	INR Currency = "INR"
	BRL Currency = "BRL"
	KRW Currency = "KRW"
	MXN Currency = "MXN"
)

// Supported lists every output currency in column order. USD is the base and
// never sourced from the FX dataset.
var Supported = []Currency{USD, EUR, GBP, JPY, CAD, AUD, CHF, CNY, INR, BRL, KRW, MXN}

// Quotes are the currencies derived from the FX dataset.
var Quotes = Supported[1:]

// DecimalPlaces returns the output precision for a currency. JPY and KRW are
// conventionally quoted without a fractional part.
func (c Currency) DecimalPlaces() int32 {
	switch c {
	case JPY, KRW:
		return 0
	default:
		return 2
	}
}

// Column returns the CSV column name for the currency's derived price.
func (c Currency) Column() string {
	return "BTC_" + string(c)
}

// ParseCurrency validates a code against the supported set.
func ParseCurrency(s string) (Currency, error) {
	for _, c := range Supported {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}
