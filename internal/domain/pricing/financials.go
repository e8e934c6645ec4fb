// Package pricing computes order totals in the canonical currency.
package pricing

import (
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Financials is the full breakdown of an order's totals, rounded to 2 places
type Financials struct {
	ItemsTotal             decimal.Decimal `json:"items_total"`
	TotalDiscountAmount    decimal.Decimal `json:"total_discount_amount"`
	SubTotalAfterDiscounts decimal.Decimal `json:"sub_total_after_discounts"`
	TaxAmount              decimal.Decimal `json:"tax_amount"`
	GrandTotal             decimal.Decimal `json:"grand_total"`
}

// ComputeFinancials sums every line, applies discounts sequentially against the
// running total and adds tax when taxRate is positive.
//
// Discounts are not commutative: a percentage discount is taken from whatever
// is left after the discounts before it, and each discount is capped at the
// running total so the subtotal never goes below zero. Intermediate values
// are kept at full precision; rounding (half away from zero) happens once at
// the end. Raw quantities and prices are not validated here.
func ComputeFinancials(sections []entity.OrderSection, discounts []entity.Discount, taxRate *decimal.Decimal) Financials {
	itemsTotal := decimal.Zero
	for _, section := range sections {
		for _, item := range section.Products {
			itemsTotal = itemsTotal.Add(item.LineTotal())
		}
	}

	running := itemsTotal
	totalDiscount := decimal.Zero
	for _, discount := range discounts {
		amount := discountAmount(discount, running)
		running = running.Sub(amount)
		totalDiscount = totalDiscount.Add(amount)
	}

	taxAmount := decimal.Zero
	if taxRate != nil && taxRate.IsPositive() {
		taxAmount = running.Mul(*taxRate).Div(hundred)
	}

	return Financials{
		ItemsTotal:             itemsTotal.Round(2),
		TotalDiscountAmount:    totalDiscount.Round(2),
		SubTotalAfterDiscounts: running.Round(2),
		TaxAmount:              taxAmount.Round(2),
		GrandTotal:             running.Add(taxAmount).Round(2),
	}
}

// discountAmount returns the effective amount of d against running, never
// more than running itself.
func discountAmount(d entity.Discount, running decimal.Decimal) decimal.Decimal {
	var raw decimal.Decimal
	switch d.Type {
	case enum.DiscountTypePercentage:
		raw = running.Mul(d.Value).Div(hundred)
	default:
		raw = d.Value
	}
	return decimal.Min(raw, running)
}
