package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/evdekor-api/internal/application/service"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/pricing"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/response"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/shopspring/decimal"
)

// PricingHandler serves the stateless pricing endpoints
type PricingHandler struct {
	settingsService *service.SettingsService
	formatter       *money.Formatter
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(settingsService *service.SettingsService, formatter *money.Formatter) *PricingHandler {
	return &PricingHandler{settingsService: settingsService, formatter: formatter}
}

// Preview computes the totals of a draft without saving it. The figures match
// what creating the order from the same body would store.
func (h *PricingHandler) Preview(c *gin.Context) {
	var req request.FinancialsPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.TaxRate != nil {
		if msg := service.CheckTaxRate(*req.TaxRate); msg != "" {
			response.ValidationError(c, []apperror.FieldError{{Field: "tax_rate", Message: msg}})
			return
		}
	}

	sections := make([]entity.OrderSection, len(req.Sections))
	for i, s := range req.Sections {
		products := make([]entity.ProductItem, len(s.Products))
		for j, p := range s.Products {
			products[j] = entity.ProductItem{Name: p.Name, Quantity: p.Quantity, Unit: p.Unit, UnitPrice: p.UnitPrice}
		}
		sections[i] = entity.OrderSection{Name: s.Name, Products: products}
	}
	discounts := make([]entity.Discount, len(req.Discounts))
	for i, d := range req.Discounts {
		if !d.Type.IsValid() {
			response.ValidationError(c, []apperror.FieldError{{Field: "discounts", Message: "discount type must be percentage or amount"}})
			return
		}
		discounts[i] = entity.Discount{Type: d.Type, Value: d.Value}
	}

	// a missing rate means no tax, exactly as when the order is saved
	response.OK(c, "Financials computed successfully", pricing.ComputeFinancials(sections, discounts, req.TaxRate))
}

type conversionView struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  money.Currency  `json:"currency"`
	Converted decimal.Decimal `json:"converted"`
	Formatted string          `json:"formatted"`
}

// Convert converts a canonical amount into currency with the current global
// rates. direction=to_canonical converts the other way.
func (h *PricingHandler) Convert(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		response.ValidationError(c, []apperror.FieldError{{Field: "amount", Message: "amount must be a number"}})
		return
	}
	currency, err := money.ParseCurrency(c.DefaultQuery("currency", string(money.Canonical)))
	if err != nil {
		response.ValidationError(c, []apperror.FieldError{{Field: "currency", Message: "unsupported currency"}})
		return
	}

	rates, err := h.settingsService.GetExchangeRates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	view := conversionView{Amount: amount, Currency: currency}
	if c.Query("direction") == "to_canonical" {
		view.Converted = money.ToCanonical(amount, currency, rates).Round(2)
		view.Formatted = h.formatter.Format(view.Converted, money.Canonical)
	} else {
		view.Converted = money.Convert(amount, currency, rates).Round(2)
		view.Formatted = h.formatter.Format(view.Converted, currency)
	}

	response.OK(c, "Amount converted successfully", view)
}
