package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/internal/domain/pricing"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/internal/infrastructure/metrics"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/sangkips/evdekor-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// OrderServiceConfig holds numbering and snapshot defaults
type OrderServiceConfig struct {
	NumberPrefix        string
	UnknownCustomerName string
}

// OrderService handles the order lifecycle: numbering, snapshots and
// financial recomputation
type OrderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	sequence     repository.SequenceRepository
	transactor   repository.Transactor
	settings     *SettingsService
	suggestions  *SuggestionService
	formatter    *money.Formatter
	cfg          OrderServiceConfig
	log          *zap.Logger

	// mu serialises every order write; BulkUpdateOrderStatus takes it per order
	mu  sync.Mutex
	now func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	sequence repository.SequenceRepository,
	transactor repository.Transactor,
	settings *SettingsService,
	suggestions *SuggestionService,
	formatter *money.Formatter,
	cfg OrderServiceConfig,
	log *zap.Logger,
) *OrderService {
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "SİP"
	}
	if cfg.UnknownCustomerName == "" {
		cfg.UnknownCustomerName = "Bilinmeyen Müşteri"
	}
	return &OrderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		sequence:     sequence,
		transactor:   transactor,
		settings:     settings,
		suggestions:  suggestions,
		formatter:    formatter,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
	}
}

// OrderDraft is the user-editable part of an order
type OrderDraft struct {
	CustomerID uuid.UUID
	Date       time.Time
	Sections   []entity.OrderSection
	// Currency defaults to the globally selected display currency
	Currency  money.Currency
	Status    enum.OrderStatus
	Notes     *string
	Discounts []entity.Discount
	TaxRate   *decimal.Decimal
}

// maxTaxRate is the exclusive upper bound of the decimal(5,2) tax_rate column
var maxTaxRate = decimal.NewFromInt(1000)

// CheckTaxRate returns why rate cannot be stored, or "" when it can
func CheckTaxRate(rate decimal.Decimal) string {
	switch {
	case rate.IsNegative():
		return "tax rate cannot be negative"
	case rate.GreaterThanOrEqual(maxTaxRate):
		return "tax rate must be below 1000"
	case !rate.Equal(rate.Truncate(2)):
		return "tax rate allows at most 2 decimal places"
	}
	return ""
}

// ValidateDraft checks a draft without touching storage
func ValidateDraft(d *OrderDraft) []apperror.FieldError {
	var errs []apperror.FieldError
	add := func(field, msg string) {
		errs = append(errs, apperror.FieldError{Field: field, Message: msg})
	}

	if d.CustomerID == uuid.Nil {
		add("customer_id", "customer is required")
	}
	if d.Date.IsZero() {
		add("date", "date is required")
	}

	items := 0
	for i, section := range d.Sections {
		for j, item := range section.Products {
			items++
			field := fmt.Sprintf("sections[%d].products[%d]", i, j)
			if strings.TrimSpace(item.Name) == "" {
				add(field+".name", "product name is required")
			}
			if !item.Quantity.IsPositive() {
				add(field+".quantity", "quantity must be greater than zero")
			}
			if item.UnitPrice.IsNegative() {
				add(field+".unit_price", "unit price cannot be negative")
			}
		}
	}
	if items == 0 {
		add("sections", "at least one section with one product is required")
	}

	for i, discount := range d.Discounts {
		field := fmt.Sprintf("discounts[%d]", i)
		if !discount.Type.IsValid() {
			add(field+".type", "discount type must be percentage or amount")
		}
		if discount.Value.IsNegative() {
			add(field+".value", "discount value cannot be negative")
		}
	}

	if d.TaxRate != nil {
		if msg := CheckTaxRate(*d.TaxRate); msg != "" {
			add("tax_rate", msg)
		}
	}
	if d.Currency != "" && !d.Currency.IsValid() {
		add("currency", "unsupported currency")
	}
	if !d.Status.IsValid() {
		add("status", "unknown status")
	}
	return errs
}

// CreateOrder validates the draft, snapshots the customer name and exchange
// rates, computes the totals and stores the order under a fresh number.
func (s *OrderService) CreateOrder(ctx context.Context, draft *OrderDraft) (*entity.Order, error) {
	if errs := ValidateDraft(draft); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := &entity.Order{}
	if err := s.applyDraft(ctx, order, draft, ""); err != nil {
		metrics.RecordOrderOperation(metrics.OpCreate, false)
		return nil, err
	}

	year := s.now().Year()
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		seq, err := s.sequence.Next(ctx, entity.SettingOrderCounter)
		if err != nil {
			return errors.Wrap(err, "next order number")
		}
		order.OrderNumber = FormatOrderNumber(s.cfg.NumberPrefix, year, seq)
		return s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		metrics.RecordOrderOperation(metrics.OpCreate, false)
		return nil, errors.Wrap(err, "create order")
	}
	metrics.RecordOrderOperation(metrics.OpCreate, true)

	s.suggestions.RecordOrder(ctx, order)
	s.log.Info("Order created",
		zap.Stringer("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("grand_total", order.GrandTotal.StringFixed(2)))

	return order, nil
}

// UpdateOrder replaces the draft fields of an order, refreshing both
// snapshots and the totals. The id, number and creation time are kept.
func (s *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, draft *OrderDraft) (*entity.Order, error) {
	if errs := ValidateDraft(draft); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyDraft(ctx, order, draft, order.CustomerNameSnapshot); err != nil {
		metrics.RecordOrderOperation(metrics.OpUpdate, false)
		return nil, err
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		metrics.RecordOrderOperation(metrics.OpUpdate, false)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewNotFoundError("Order")
		}
		return nil, errors.Wrap(err, "update order")
	}
	metrics.RecordOrderOperation(metrics.OpUpdate, true)

	s.suggestions.RecordOrder(ctx, order)
	s.log.Info("Order updated",
		zap.Stringer("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))

	return order, nil
}

// applyDraft copies the draft onto order, resolves both snapshots and
// recomputes the totals. previousName is used when the customer is gone.
func (s *OrderService) applyDraft(ctx context.Context, order *entity.Order, draft *OrderDraft, previousName string) error {
	name, err := s.customerName(ctx, draft.CustomerID, previousName)
	if err != nil {
		return err
	}
	rates, err := s.settings.GetExchangeRates(ctx)
	if err != nil {
		return err
	}
	currency := draft.Currency
	if currency == "" {
		if currency, err = s.settings.GetCurrentCurrency(ctx); err != nil {
			return err
		}
	}

	sections := assignSectionIDs(draft.Sections)
	discounts := assignDiscountIDs(draft.Discounts)
	fin := pricing.ComputeFinancials(sections, discounts, draft.TaxRate)

	order.CustomerID = draft.CustomerID
	order.CustomerNameSnapshot = name
	order.Date = draft.Date
	order.Sections = sections
	order.Currency = currency
	order.ExchangeRatesSnapshot = rates
	order.Status = draft.Status
	order.Notes = draft.Notes
	order.Discounts = discounts
	order.TaxRate = draft.TaxRate
	order.ItemsTotal = fin.ItemsTotal
	order.TotalDiscountAmount = fin.TotalDiscountAmount
	order.SubTotalAfterDiscounts = fin.SubTotalAfterDiscounts
	order.TaxAmount = fin.TaxAmount
	order.GrandTotal = fin.GrandTotal
	return nil
}

// customerName resolves the snapshot name: the customer's current name,
// else fallback, else the unknown-customer marker
func (s *OrderService) customerName(ctx context.Context, id uuid.UUID, fallback string) (string, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return "", errors.Wrap(err, "resolve customer")
	}
	if customer != nil && strings.TrimSpace(customer.Name) != "" {
		return customer.Name, nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return s.cfg.UnknownCustomerName, nil
}

func assignSectionIDs(sections []entity.OrderSection) []entity.OrderSection {
	out := make([]entity.OrderSection, len(sections))
	for i, section := range sections {
		if section.ID == uuid.Nil {
			section.ID = uuid.New()
		}
		products := make([]entity.ProductItem, len(section.Products))
		for j, item := range section.Products {
			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			products[j] = item
		}
		section.Products = products
		out[i] = section
	}
	return out
}

func assignDiscountIDs(discounts []entity.Discount) []entity.Discount {
	out := make([]entity.Discount, len(discounts))
	for i, discount := range discounts {
		if discount.ID == uuid.Nil {
			discount.ID = uuid.New()
		}
		out[i] = discount
	}
	return out
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering, newest date first
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params == nil {
		params = &repository.OrderFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ListCustomerOrders lists the orders placed for a customer, including
// orders whose customer record has since been deleted
func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Order], error) {
	return s.ListOrders(ctx, &repository.OrderFilterParams{
		Pagination: params,
		CustomerID: &customerID,
	})
}

// DeleteOrder removes a single order
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		metrics.RecordOrderOperation(metrics.OpDelete, false)
		return errors.Wrap(err, "delete order")
	}
	metrics.RecordOrderOperation(metrics.OpDelete, true)
	s.log.Info("Order deleted", zap.Stringer("order_id", id))
	return nil
}

// UpdateOrderStatus changes only the status. Any status may follow any other.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldValidationError("status", "unknown status")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		metrics.RecordOrderOperation(metrics.OpStatus, false)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewNotFoundError("Order")
		}
		return nil, errors.Wrap(err, "update order status")
	}
	metrics.RecordOrderOperation(metrics.OpStatus, true)

	order.Status = status
	return order, nil
}

// BulkStatusFailure is one order a bulk status change could not update
type BulkStatusFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
	err   error
}

// BulkStatusResult reports the outcome of a bulk status change per order
type BulkStatusResult struct {
	Updated []uuid.UUID         `json:"updated"`
	Failed  []BulkStatusFailure `json:"failed"`
}

// Err combines every failure, or returns nil when all orders were updated
func (r *BulkStatusResult) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, errors.Wrapf(f.err, "order %s", f.ID))
	}
	return err
}

// BulkUpdateOrderStatus applies status to each order in turn. A failing
// order does not stop the others; every failure is reported in the result.
func (s *OrderService) BulkUpdateOrderStatus(ctx context.Context, ids []uuid.UUID, status enum.OrderStatus) (*BulkStatusResult, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldValidationError("status", "unknown status")
	}
	if len(ids) == 0 {
		return nil, apperror.NewFieldValidationError("ids", "at least one order id is required")
	}

	result := &BulkStatusResult{
		Updated: make([]uuid.UUID, 0, len(ids)),
		Failed:  []BulkStatusFailure{},
	}
	for _, id := range ids {
		if _, err := s.UpdateOrderStatus(ctx, id, status); err != nil {
			result.Failed = append(result.Failed, BulkStatusFailure{ID: id, Error: err.Error(), err: err})
			continue
		}
		result.Updated = append(result.Updated, id)
	}

	if err := result.Err(); err != nil {
		metrics.RecordOrderOperation(metrics.OpBulkStatus, false)
		s.log.Warn("Bulk status update had failures",
			zap.String("status", status.String()),
			zap.Int("updated", len(result.Updated)),
			zap.Int("failed", len(result.Failed)),
			zap.Error(err))
	} else {
		metrics.RecordOrderOperation(metrics.OpBulkStatus, true)
	}

	return result, nil
}

// OrderTotals are an order's totals expressed in a display currency
type OrderTotals struct {
	Currency               money.Currency  `json:"currency"`
	ItemsTotal             decimal.Decimal `json:"items_total"`
	TotalDiscountAmount    decimal.Decimal `json:"total_discount_amount"`
	SubTotalAfterDiscounts decimal.Decimal `json:"sub_total_after_discounts"`
	TaxAmount              decimal.Decimal `json:"tax_amount"`
	GrandTotal             decimal.Decimal `json:"grand_total"`
	FormattedGrandTotal    string          `json:"formatted_grand_total"`
}

// OrderTotalsIn converts an order's stored totals into currency using the
// rates frozen on the order, so the figures never drift when the global
// rates change. An empty currency means the order's own currency.
func (s *OrderService) OrderTotalsIn(order *entity.Order, currency money.Currency) OrderTotals {
	if currency == "" {
		currency = order.Currency
	}
	rates := order.ExchangeRatesSnapshot
	conv := func(v decimal.Decimal) decimal.Decimal {
		return money.Convert(v, currency, rates).Round(2)
	}

	totals := OrderTotals{
		Currency:               currency,
		ItemsTotal:             conv(order.ItemsTotal),
		TotalDiscountAmount:    conv(order.TotalDiscountAmount),
		SubTotalAfterDiscounts: conv(order.SubTotalAfterDiscounts),
		TaxAmount:              conv(order.TaxAmount),
		GrandTotal:             conv(order.GrandTotal),
	}
	totals.FormattedGrandTotal = s.formatter.Format(totals.GrandTotal, currency)
	return totals
}
