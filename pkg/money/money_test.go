package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestConvert(t *testing.T) {
	rates := ExchangeRates{USD: d("32.5"), EUR: d("35.2")}

	tests := []struct {
		name   string
		amount decimal.Decimal
		target Currency
		rates  ExchangeRates
		want   decimal.Decimal
	}{
		{name: "canonical is identity", amount: d("123.45"), target: TRY, rates: rates, want: d("123.45")},
		{name: "canonical ignores broken table", amount: d("10"), target: TRY, rates: ExchangeRates{}, want: d("10")},
		{name: "usd", amount: d("325"), target: USD, rates: rates, want: d("10")},
		{name: "eur", amount: d("352"), target: EUR, rates: rates, want: d("10")},
		{name: "missing usd rate falls back to 32", amount: d("320"), target: USD, rates: ExchangeRates{EUR: d("35.2")}, want: d("10")},
		{name: "negative eur rate falls back to 35", amount: d("70"), target: EUR, rates: ExchangeRates{USD: d("1"), EUR: d("-3")}, want: d("2")},
		{name: "unknown currency passes through", amount: d("42"), target: Currency("GBP"), rates: rates, want: d("42")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.amount, tt.target, tt.rates)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestConvertRoundTrip(t *testing.T) {
	rates := ExchangeRates{USD: d("32.4791"), EUR: d("35.1977")}
	tolerance := d("0.01")

	for _, amount := range []string{"0", "0.01", "1", "199.99", "12345.67", "987654.32"} {
		for _, c := range Supported {
			original := d(amount)
			back := ToCanonical(Convert(original, c, rates), c, rates)
			assert.True(t, back.Sub(original).Abs().LessThanOrEqual(tolerance),
				"%s via %s came back as %s", amount, c, back)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" usd ")
	require.NoError(t, err)
	assert.Equal(t, USD, c)

	_, err = ParseCurrency("GBP")
	assert.Error(t, err)
}

func TestExchangeRatesValidate(t *testing.T) {
	assert.NoError(t, InitialExchangeRates().Validate())
	assert.Error(t, ExchangeRates{USD: d("0"), EUR: d("35")}.Validate())
	assert.Error(t, ExchangeRates{USD: d("32"), EUR: d("-1")}.Validate())
}

func TestFormat(t *testing.T) {
	got := Format(d("1234.5"), TRY)
	assert.True(t, strings.HasPrefix(got, "₺"), got)
	assert.True(t, strings.HasSuffix(got, ",50"), got)
	assert.Equal(t, got, Format(d("1234.5"), TRY))

	usd := Format(d("10"), USD)
	assert.True(t, strings.HasPrefix(usd, "$"), usd)
	assert.True(t, strings.HasSuffix(usd, ",00"), usd)

	neg := Format(d("-5.255"), EUR)
	assert.True(t, strings.HasPrefix(neg, "-€"), neg)
	assert.True(t, strings.HasSuffix(neg, ",26"), neg)
}

func TestFormatKeepsCentsOnLargeAmounts(t *testing.T) {
	tests := []struct {
		locale   string
		amount   string
		currency Currency
		want     string
	}{
		{"tr", "1234.5", TRY, "₺1.234,50"},
		{"tr", "999", TRY, "₺999,00"},
		{"tr", "123456789012345.67", TRY, "₺123.456.789.012.345,67"},
		{"tr", "90000000000000.01", TRY, "₺90.000.000.000.000,01"},
		{"en", "98765432109876.54", USD, "$98,765,432,109,876.54"},
		{"en", "-1000000.005", EUR, "-€1,000,000.01"},
	}
	for _, tt := range tests {
		t.Run(tt.locale+" "+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFormatter(tt.locale).Format(d(tt.amount), tt.currency))
		})
	}
}
