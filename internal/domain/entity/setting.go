package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Setting keys
const (
	SettingExchangeRates                 = "exchangeRates"
	SettingCurrentCurrency               = "currentCurrency"
	SettingProductUnits                  = "productUnits"
	SettingCompanyInfo                   = "companyInfo"
	SettingProductNameSuggestions        = "productNameSuggestions"
	SettingProductDescriptionSuggestions = "productDescriptionSuggestions"
	SettingOrderCounter                  = "orderCounter"
)

// Setting is a single application-wide key/value pair stored as JSON
type Setting struct {
	Key       string         `gorm:"column:setting_key;size:100;primaryKey" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}

// CompanyInfo describes the business printed on quotations
type CompanyInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	LogoBase64 string `json:"logo_base64,omitempty"`
}

// DefaultCompanyInfo is shown until the user fills in their own details
func DefaultCompanyInfo() CompanyInfo {
	return CompanyInfo{
		Name:    "Firma Adınız",
		Email:   "firma@mail.com",
		Phone:   "(000) 000 0000",
		Address: "Firma Adresiniz",
	}
}

// DefaultProductUnits is the initial unit vocabulary
func DefaultProductUnits() []string {
	return []string{"Adet", "M2", "Mtül"}
}
