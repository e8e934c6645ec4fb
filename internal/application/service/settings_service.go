package service

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingsService handles application-wide settings
type SettingsService struct {
	settingsRepo   repository.SettingsRepository
	defaultTaxRate decimal.Decimal
	log            *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository, defaultTaxRate decimal.Decimal, log *zap.Logger) *SettingsService {
	return &SettingsService{
		settingsRepo:   settingsRepo,
		defaultTaxRate: defaultTaxRate,
		log:            log,
	}
}

// EnsureDefaults writes the initial value of every setting that has never been set
func (s *SettingsService) EnsureDefaults(ctx context.Context) error {
	defaults := []struct {
		key   string
		value any
	}{
		{entity.SettingExchangeRates, money.InitialExchangeRates()},
		{entity.SettingCurrentCurrency, money.Canonical},
		{entity.SettingProductUnits, entity.DefaultProductUnits()},
		{entity.SettingCompanyInfo, entity.DefaultCompanyInfo()},
		{entity.SettingProductNameSuggestions, []string{}},
		{entity.SettingProductDescriptionSuggestions, []string{}},
		{entity.SettingOrderCounter, 1},
	}

	for _, d := range defaults {
		var raw json.RawMessage
		found, err := s.settingsRepo.Get(ctx, d.key, &raw)
		if err != nil {
			return errors.Wrapf(err, "read setting %q", d.key)
		}
		if found {
			continue
		}
		if err := s.settingsRepo.Set(ctx, d.key, d.value); err != nil {
			return errors.Wrapf(err, "seed setting %q", d.key)
		}
		s.log.Info("Seeded default setting", zap.String("key", d.key))
	}
	return nil
}

// GetExchangeRates returns the global rate table
func (s *SettingsService) GetExchangeRates(ctx context.Context) (money.ExchangeRates, error) {
	rates := money.InitialExchangeRates()
	if _, err := s.settingsRepo.Get(ctx, entity.SettingExchangeRates, &rates); err != nil {
		return money.ExchangeRates{}, errors.Wrap(err, "get exchange rates")
	}
	return rates, nil
}

// UpdateExchangeRates replaces the global rate table. Existing orders keep
// their own snapshot.
func (s *SettingsService) UpdateExchangeRates(ctx context.Context, rates money.ExchangeRates) (money.ExchangeRates, error) {
	if err := rates.Validate(); err != nil {
		return money.ExchangeRates{}, apperror.NewFieldValidationError("exchange_rates", err.Error())
	}
	if err := s.settingsRepo.Set(ctx, entity.SettingExchangeRates, rates); err != nil {
		return money.ExchangeRates{}, errors.Wrap(err, "set exchange rates")
	}
	s.log.Info("Exchange rates updated",
		zap.String("usd", rates.USD.String()),
		zap.String("eur", rates.EUR.String()))
	return rates, nil
}

// GetCurrentCurrency returns the globally selected display currency
func (s *SettingsService) GetCurrentCurrency(ctx context.Context) (money.Currency, error) {
	currency := money.Canonical
	if _, err := s.settingsRepo.Get(ctx, entity.SettingCurrentCurrency, &currency); err != nil {
		return "", errors.Wrap(err, "get current currency")
	}
	if !currency.IsValid() {
		return money.Canonical, nil
	}
	return currency, nil
}

// SetCurrentCurrency changes the display currency
func (s *SettingsService) SetCurrentCurrency(ctx context.Context, currency money.Currency) error {
	if !currency.IsValid() {
		return apperror.NewFieldValidationError("currency", "unsupported currency")
	}
	return errors.Wrap(s.settingsRepo.Set(ctx, entity.SettingCurrentCurrency, currency), "set current currency")
}

// GetCompanyInfo returns the company details
func (s *SettingsService) GetCompanyInfo(ctx context.Context) (entity.CompanyInfo, error) {
	info := entity.DefaultCompanyInfo()
	if _, err := s.settingsRepo.Get(ctx, entity.SettingCompanyInfo, &info); err != nil {
		return entity.CompanyInfo{}, errors.Wrap(err, "get company info")
	}
	return info, nil
}

// UpdateCompanyInfo replaces the company details
func (s *SettingsService) UpdateCompanyInfo(ctx context.Context, info entity.CompanyInfo) (entity.CompanyInfo, error) {
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		return entity.CompanyInfo{}, apperror.NewFieldValidationError("name", "company name is required")
	}
	if err := s.settingsRepo.Set(ctx, entity.SettingCompanyInfo, info); err != nil {
		return entity.CompanyInfo{}, errors.Wrap(err, "set company info")
	}
	return info, nil
}

// ListUnits returns the managed unit vocabulary
func (s *SettingsService) ListUnits(ctx context.Context) ([]string, error) {
	units := entity.DefaultProductUnits()
	if _, err := s.settingsRepo.Get(ctx, entity.SettingProductUnits, &units); err != nil {
		return nil, errors.Wrap(err, "get product units")
	}
	return units, nil
}

// AddUnit appends a unit label; adding an existing label is a no-op
func (s *SettingsService) AddUnit(ctx context.Context, unit string) ([]string, error) {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return nil, apperror.NewFieldValidationError("unit", "unit is required")
	}

	units, err := s.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	if slices.Contains(units, unit) {
		return units, nil
	}

	units = append(units, unit)
	if err := s.settingsRepo.Set(ctx, entity.SettingProductUnits, units); err != nil {
		return nil, errors.Wrap(err, "set product units")
	}
	return units, nil
}

// DeleteUnit removes a unit label. Orders already using it keep their text.
func (s *SettingsService) DeleteUnit(ctx context.Context, unit string) ([]string, error) {
	units, err := s.ListUnits(ctx)
	if err != nil {
		return nil, err
	}

	idx := slices.Index(units, unit)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Unit")
	}
	units = slices.Delete(units, idx, idx+1)

	if err := s.settingsRepo.Set(ctx, entity.SettingProductUnits, units); err != nil {
		return nil, errors.Wrap(err, "set product units")
	}
	return units, nil
}

// DefaultTaxRate is the rate prefilled on new drafts
func (s *SettingsService) DefaultTaxRate() decimal.Decimal {
	return s.defaultTaxRate
}
