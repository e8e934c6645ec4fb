package money

import "github.com/shopspring/decimal"

// fallbackRates are used when a rate table has a missing or non-positive entry.
var fallbackRates = map[Currency]decimal.Decimal{
	USD: decimal.NewFromInt(32),
	EUR: decimal.NewFromInt(35),
}

// effectiveRate resolves the rate used for c: the table value when positive,
// otherwise the fallback constant. Currencies without a fallback use 1.
func effectiveRate(c Currency, rates ExchangeRates) decimal.Decimal {
	if rate, ok := rates.Rate(c); ok && rate.IsPositive() {
		return rate
	}
	if fb, ok := fallbackRates[c]; ok {
		return fb
	}
	return decimal.NewFromInt(1)
}

// Convert turns an amount held in the canonical currency into target.
// The result is not rounded; rounding belongs to formatting.
func Convert(amount decimal.Decimal, target Currency, rates ExchangeRates) decimal.Decimal {
	if target == Canonical {
		return amount
	}
	return amount.Div(effectiveRate(target, rates))
}

// ToCanonical is the inverse of Convert.
func ToCanonical(amount decimal.Decimal, source Currency, rates ExchangeRates) decimal.Decimal {
	if source == Canonical {
		return amount
	}
	return amount.Mul(effectiveRate(source, rates))
}
