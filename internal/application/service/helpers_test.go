package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/internal/infrastructure/memory"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type testEnv struct {
	store       *memory.Store
	settingsRep *memory.SettingsRepository
	orders      *OrderService
	customers   *CustomerService
	settings    *SettingsService
	suggestions *SuggestionService
	reports     *ReportService
	logs        *observer.ObservedLogs
}

// newTestEnv wires every service on a fresh in-memory store. settingsRepo,
// when given, replaces the store's settings repository for the suggestion
// service only.
func newTestEnv(t *testing.T, suggestionRepo repository.SettingsRepository) *testEnv {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	store := memory.NewStore()
	settingsRepo := memory.NewSettingsRepository(store)
	orderRepo := memory.NewOrderRepository(store)
	customerRepo := memory.NewCustomerRepository(store)
	if suggestionRepo == nil {
		suggestionRepo = settingsRepo
	}

	settings := NewSettingsService(settingsRepo, d("10"), log)
	require.NoError(t, settings.EnsureDefaults(context.Background()))
	suggestions := NewSuggestionService(suggestionRepo, log)

	orders := NewOrderService(orderRepo, customerRepo, settingsRepo, store, settings, suggestions,
		money.NewFormatter("tr"), OrderServiceConfig{}, log)
	orders.now = func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) }

	return &testEnv{
		store:       store,
		settingsRep: settingsRepo,
		orders:      orders,
		customers:   NewCustomerService(customerRepo, log),
		settings:    settings,
		suggestions: suggestions,
		reports:     NewReportService(orderRepo, customerRepo, log),
		logs:        logs,
	}
}

func (e *testEnv) customer(t *testing.T, name string) *entity.Customer {
	t.Helper()
	c, err := e.customers.CreateCustomer(context.Background(), &CreateCustomerInput{Name: name})
	require.NoError(t, err)
	return c
}

// draft builds a valid single-section draft for customerID
func draft(customerID uuid.UUID, items ...entity.ProductItem) *OrderDraft {
	if len(items) == 0 {
		items = []entity.ProductItem{{Name: "Tül Perde", Quantity: d("2"), Unit: "Adet", UnitPrice: d("100")}}
	}
	return &OrderDraft{
		CustomerID: customerID,
		Date:       time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Sections:   []entity.OrderSection{{Name: "Salon", Products: items}},
		Currency:   money.TRY,
		Status:     enum.OrderStatusQuotation,
	}
}

// failingSettingsRepo fails every write
type failingSettingsRepo struct {
	repository.SettingsRepository
}

var errStorageDown = errors.New("storage down")

func (f failingSettingsRepo) Set(context.Context, string, any) error {
	return errStorageDown
}
