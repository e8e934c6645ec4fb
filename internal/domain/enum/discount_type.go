package enum

// DiscountType tells how a discount value is interpreted
type DiscountType string

const (
	// DiscountTypePercentage takes value percent of the running total
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeAmount subtracts a fixed canonical-currency amount
	DiscountTypeAmount DiscountType = "amount"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeAmount
}
