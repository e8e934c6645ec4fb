package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a sales order or quotation.
//
// Every monetary column is held in the canonical currency. CustomerNameSnapshot
// and ExchangeRatesSnapshot are copies taken at the last write and are never
// refreshed from the live customer or rate table on read.
type Order struct {
	ID                    uuid.UUID           `gorm:"type:char(36);primaryKey" json:"id"`
	OrderNumber           string              `gorm:"size:50;uniqueIndex;not null" json:"order_number"`
	CustomerID            uuid.UUID           `gorm:"type:char(36);not null;index" json:"customer_id"`
	CustomerNameSnapshot  string              `gorm:"size:255;not null" json:"customer_name_snapshot"`
	Date                  time.Time           `gorm:"not null;index" json:"date"`
	Sections              []OrderSection      `gorm:"serializer:json;type:json" json:"sections"`
	Currency              money.Currency      `gorm:"size:3;not null" json:"currency"`
	ExchangeRatesSnapshot money.ExchangeRates `gorm:"serializer:json;type:json" json:"exchange_rates_snapshot"`
	Status                enum.OrderStatus    `gorm:"not null;default:0;index" json:"status"`
	Notes                 *string             `gorm:"type:text" json:"notes,omitempty"`
	Discounts             []Discount          `gorm:"serializer:json;type:json" json:"discounts"`
	TaxRate               *decimal.Decimal    `gorm:"type:decimal(5,2)" json:"tax_rate,omitempty"`

	// Financials
	ItemsTotal             decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"items_total"`
	TotalDiscountAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_discount_amount"`
	SubTotalAfterDiscounts decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"sub_total_after_discounts"`
	TaxAmount              decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"tax_amount"`
	GrandTotal             decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"grand_total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderSection groups line items under a heading (e.g. a room)
type OrderSection struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Products []ProductItem `json:"products"`
}

// ProductItem is a single priced line on an order
type ProductItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal returns quantity × unit price, unrounded
func (p ProductItem) LineTotal() decimal.Decimal {
	return p.Quantity.Mul(p.UnitPrice)
}

// Discount is applied to the running total in list order
type Discount struct {
	ID          uuid.UUID         `json:"id"`
	Description string            `json:"description,omitempty"`
	Type        enum.DiscountType `json:"type"`
	Value       decimal.Decimal   `json:"value"`
}
