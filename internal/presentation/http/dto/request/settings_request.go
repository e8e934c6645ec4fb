package request

import "github.com/shopspring/decimal"

// ExchangeRatesRequest replaces the global rate table
type ExchangeRatesRequest struct {
	USD decimal.Decimal `json:"USD"`
	EUR decimal.Decimal `json:"EUR"`
}

// CurrencyRequest selects the display currency
type CurrencyRequest struct {
	Currency string `json:"currency" binding:"required"`
}

// CompanyInfoRequest replaces the company details
type CompanyInfoRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"max=50"`
	Address    string `json:"address"`
	LogoBase64 string `json:"logo_base64"`
}

// UnitRequest adds a unit label
type UnitRequest struct {
	Unit string `json:"unit" binding:"required,max=50"`
}
