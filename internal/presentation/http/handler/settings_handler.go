package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/evdekor-api/internal/application/service"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/request"
	"github.com/sangkips/evdekor-api/internal/presentation/http/dto/response"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/money"
)

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	settingsService   *service.SettingsService
	suggestionService *service.SuggestionService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService, suggestionService *service.SuggestionService) *SettingsHandler {
	return &SettingsHandler{
		settingsService:   settingsService,
		suggestionService: suggestionService,
	}
}

// GetExchangeRates returns the global rate table
func (h *SettingsHandler) GetExchangeRates(c *gin.Context) {
	rates, err := h.settingsService.GetExchangeRates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Exchange rates retrieved successfully", rates)
}

// UpdateExchangeRates replaces the global rate table
func (h *SettingsHandler) UpdateExchangeRates(c *gin.Context) {
	var req request.ExchangeRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	rates, err := h.settingsService.UpdateExchangeRates(c.Request.Context(), money.ExchangeRates{USD: req.USD, EUR: req.EUR})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Exchange rates updated successfully", rates)
}

type currencyView struct {
	Currency       money.Currency   `json:"currency"`
	Supported      []money.Currency `json:"supported"`
	DefaultTaxRate string           `json:"default_tax_rate"`
}

// GetCurrency returns the display currency
func (h *SettingsHandler) GetCurrency(c *gin.Context) {
	currency, err := h.settingsService.GetCurrentCurrency(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Currency retrieved successfully", currencyView{
		Currency:       currency,
		Supported:      money.Supported,
		DefaultTaxRate: h.settingsService.DefaultTaxRate().String(),
	})
}

// UpdateCurrency changes the display currency
func (h *SettingsHandler) UpdateCurrency(c *gin.Context) {
	var req request.CurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		response.ValidationError(c, []apperror.FieldError{{Field: "currency", Message: "unsupported currency"}})
		return
	}
	if err := h.settingsService.SetCurrentCurrency(c.Request.Context(), currency); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Currency updated successfully", gin.H{"currency": currency})
}

// GetCompany returns the company details
func (h *SettingsHandler) GetCompany(c *gin.Context) {
	info, err := h.settingsService.GetCompanyInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Company info retrieved successfully", info)
}

// UpdateCompany replaces the company details
func (h *SettingsHandler) UpdateCompany(c *gin.Context) {
	var req request.CompanyInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.settingsService.UpdateCompanyInfo(c.Request.Context(), entity.CompanyInfo{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		LogoBase64: req.LogoBase64,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Company info updated successfully", info)
}

// ListUnits returns the unit vocabulary
func (h *SettingsHandler) ListUnits(c *gin.Context) {
	units, err := h.settingsService.ListUnits(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Units retrieved successfully", units)
}

// AddUnit adds a unit label
func (h *SettingsHandler) AddUnit(c *gin.Context) {
	var req request.UnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	units, err := h.settingsService.AddUnit(c.Request.Context(), req.Unit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Unit added successfully", units)
}

// DeleteUnit removes a unit label
func (h *SettingsHandler) DeleteUnit(c *gin.Context) {
	units, err := h.settingsService.DeleteUnit(c.Request.Context(), c.Param("unit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Unit deleted successfully", units)
}

// Suggestions returns the product name and description suggestions
func (h *SettingsHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.suggestionService.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Suggestions retrieved successfully", suggestions)
}
