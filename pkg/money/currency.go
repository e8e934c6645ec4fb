package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code supported by the application
type Currency string

const (
	TRY Currency = "TRY"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// Canonical is the currency every monetary field is stored in
const Canonical = TRY

// Supported lists the currencies accepted for display and entry
var Supported = []Currency{TRY, USD, EUR}

// IsValid reports whether c is one of the supported currencies
func (c Currency) IsValid() bool {
	switch c {
	case TRY, USD, EUR:
		return true
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency parses a currency code, case-insensitively
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency %q", s)
	}
	return c, nil
}

// ExchangeRates holds "1 foreign unit = N canonical units" for each foreign currency
type ExchangeRates struct {
	USD decimal.Decimal `json:"USD"`
	EUR decimal.Decimal `json:"EUR"`
}

// InitialExchangeRates returns the rates a fresh installation starts with
func InitialExchangeRates() ExchangeRates {
	return ExchangeRates{
		USD: decimal.RequireFromString("32.50"),
		EUR: decimal.RequireFromString("35.20"),
	}
}

// Rate returns the stored rate for c. The second result is false for the
// canonical currency and for currencies the table has no column for.
func (r ExchangeRates) Rate(c Currency) (decimal.Decimal, bool) {
	switch c {
	case USD:
		return r.USD, true
	case EUR:
		return r.EUR, true
	}
	return decimal.Zero, false
}

// Validate checks that every rate is strictly positive
func (r ExchangeRates) Validate() error {
	if !r.USD.IsPositive() {
		return fmt.Errorf("USD rate must be positive, got %s", r.USD)
	}
	if !r.EUR.IsPositive() {
		return fmt.Errorf("EUR rate must be positive, got %s", r.EUR)
	}
	return nil
}
