package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var symbols = map[Currency]string{
	TRY: "₺",
	USD: "$",
	EUR: "€",
}

// Formatter renders amounts with locale grouping and a currency symbol
type Formatter struct {
	group   string
	decimal string
}

// NewFormatter creates a formatter for a BCP 47 locale such as "tr" or "en-US".
// Unparseable locales fall back to Turkish.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Turkish
	}
	group, dec := separators(message.NewPrinter(tag))
	return &Formatter{group: group, decimal: dec}
}

// separators reads the locale's grouping and decimal marks off a sample
// number. Locales with other digit systems keep the English marks.
func separators(p *message.Printer) (group, dec string) {
	sample := p.Sprint(number.Decimal(1234567.5, number.Scale(2)))

	rest, ok := strings.CutPrefix(sample, "1")
	if !ok {
		return ",", "."
	}
	group, rest, ok = strings.Cut(rest, "234")
	if !ok {
		return ",", "."
	}
	if _, rest, ok = strings.Cut(rest, "567"); !ok {
		return ",", "."
	}
	dec, ok = strings.CutSuffix(rest, "50")
	if !ok || dec == "" {
		return ",", "."
	}
	return group, dec
}

var defaultFormatter = NewFormatter("tr")

// Format renders amount in currency using the default Turkish locale
func Format(amount decimal.Decimal, currency Currency) string {
	return defaultFormatter.Format(amount, currency)
}

// Format renders amount with exactly two fraction digits. The digits come
// from the decimal itself, so no precision is lost on large amounts.
func (f *Formatter) Format(amount decimal.Decimal, currency Currency) string {
	symbol, ok := symbols[currency]
	if !ok {
		symbol = string(currency) + " "
	}

	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	whole, frac, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + symbol + groupDigits(whole, f.group) + f.decimal + frac
}

// groupDigits inserts sep between every three digits from the right
func groupDigits(digits, sep string) string {
	if len(digits) <= 3 || sep == "" {
		return digits
	}

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
