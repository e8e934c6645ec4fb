package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/application/service"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/shopspring/decimal"
)

// ProductItemRequest is one line of a section
type ProductItemRequest struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// SectionRequest groups product lines
type SectionRequest struct {
	ID       uuid.UUID            `json:"id"`
	Name     string               `json:"name"`
	Products []ProductItemRequest `json:"products"`
}

// DiscountRequest is one discount line
type DiscountRequest struct {
	ID          uuid.UUID         `json:"id"`
	Description string            `json:"description"`
	Type        enum.DiscountType `json:"type"`
	Value       decimal.Decimal   `json:"value"`
}

// OrderRequest represents an order create or update request. Validation of
// the content happens in the service so every problem is reported at once.
type OrderRequest struct {
	CustomerID uuid.UUID         `json:"customer_id"`
	Date       string            `json:"date"`
	Sections   []SectionRequest  `json:"sections"`
	Currency   string            `json:"currency"`
	Status     enum.OrderStatus  `json:"status"`
	Notes      *string           `json:"notes"`
	Discounts  []DiscountRequest `json:"discounts"`
	TaxRate    *decimal.Decimal  `json:"tax_rate"`
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ToDraft converts the request into a service draft
func (r *OrderRequest) ToDraft() (*service.OrderDraft, []apperror.FieldError) {
	var errs []apperror.FieldError

	var date time.Time
	if strings.TrimSpace(r.Date) != "" {
		parsed, err := ParseDate(r.Date)
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: "date", Message: "date must be YYYY-MM-DD or RFC 3339"})
		}
		date = parsed
	}

	var currency money.Currency
	if strings.TrimSpace(r.Currency) != "" {
		parsed, err := money.ParseCurrency(r.Currency)
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: "currency", Message: "unsupported currency"})
		}
		currency = parsed
	}

	sections := make([]entity.OrderSection, len(r.Sections))
	for i, s := range r.Sections {
		products := make([]entity.ProductItem, len(s.Products))
		for j, p := range s.Products {
			products[j] = entity.ProductItem{
				ID:          p.ID,
				Name:        strings.TrimSpace(p.Name),
				Description: strings.TrimSpace(p.Description),
				Quantity:    p.Quantity,
				Unit:        p.Unit,
				UnitPrice:   p.UnitPrice,
			}
		}
		sections[i] = entity.OrderSection{ID: s.ID, Name: s.Name, Products: products}
	}

	discounts := make([]entity.Discount, len(r.Discounts))
	for i, d := range r.Discounts {
		discounts[i] = entity.Discount{ID: d.ID, Description: d.Description, Type: d.Type, Value: d.Value}
	}

	return &service.OrderDraft{
		CustomerID: r.CustomerID,
		Date:       date,
		Sections:   sections,
		Currency:   currency,
		Status:     r.Status,
		Notes:      r.Notes,
		Discounts:  discounts,
		TaxRate:    r.TaxRate,
	}, errs
}

// UpdateStatusRequest changes a single order's status
type UpdateStatusRequest struct {
	Status enum.OrderStatus `json:"status"`
}

// BulkUpdateStatusRequest changes the status of several orders
type BulkUpdateStatusRequest struct {
	IDs    []uuid.UUID      `json:"ids" binding:"required,min=1"`
	Status enum.OrderStatus `json:"status"`
}

// FinancialsPreviewRequest computes totals without saving anything
type FinancialsPreviewRequest struct {
	Sections  []SectionRequest  `json:"sections"`
	Discounts []DiscountRequest `json:"discounts"`
	TaxRate   *decimal.Decimal  `json:"tax_rate"`
}
