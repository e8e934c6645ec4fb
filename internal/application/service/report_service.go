package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	topReportLimit    = 10
	recentOrdersLimit = 5
	exportSheetName   = "Siparişler"
)

// ReportService provides the dashboard and sales reports
type ReportService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	log          *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	log *zap.Logger,
) *ReportService {
	return &ReportService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		log:          log,
	}
}

// DateRange bounds a report; a nil end is open
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// StatusGroupStats summarises the orders of one dashboard group
type StatusGroupStats struct {
	Count int64 `json:"count"`
	// Total is in the canonical currency
	Total decimal.Decimal `json:"total"`
	// Totals converts each order with its own rate snapshot
	Totals map[money.Currency]decimal.Decimal `json:"totals"`
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers          int64            `json:"total_customers"`
	TotalOrders             int64            `json:"total_orders"`
	Quotations              StatusGroupStats `json:"quotations"`
	Pending                 StatusGroupStats `json:"pending"`
	Delivered               StatusGroupStats `json:"delivered"`
	DeliveredPendingPayment StatusGroupStats `json:"delivered_pending_payment"`
	Completed               StatusGroupStats `json:"completed"`
	RecentOrders            []entity.Order   `json:"recent_orders"`
}

func newStatusGroupStats() StatusGroupStats {
	totals := make(map[money.Currency]decimal.Decimal, len(money.Supported))
	for _, c := range money.Supported {
		totals[c] = decimal.Zero
	}
	return StatusGroupStats{Total: decimal.Zero, Totals: totals}
}

func (g *StatusGroupStats) add(o *entity.Order) {
	g.Count++
	g.Total = g.Total.Add(o.GrandTotal)
	for _, c := range money.Supported {
		g.Totals[c] = g.Totals[c].Add(money.Convert(o.GrandTotal, c, o.ExchangeRatesSnapshot))
	}
}

func (g *StatusGroupStats) round() {
	g.Total = g.Total.Round(2)
	for c, v := range g.Totals {
		g.Totals[c] = v.Round(2)
	}
}

// GetDashboardStats returns dashboard statistics
func (s *ReportService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	customerCount, err := s.customerRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count customers")
	}

	orders, total, err := s.orderRepo.List(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	stats := &DashboardStats{
		TotalCustomers:          customerCount,
		TotalOrders:             total,
		Quotations:              newStatusGroupStats(),
		Pending:                 newStatusGroupStats(),
		Delivered:               newStatusGroupStats(),
		DeliveredPendingPayment: newStatusGroupStats(),
		Completed:               newStatusGroupStats(),
	}

	for i := range orders {
		o := &orders[i]
		switch o.Status {
		case enum.OrderStatusQuotation:
			stats.Quotations.add(o)
		case enum.OrderStatusPending, enum.OrderStatusPreparing:
			stats.Pending.add(o)
		case enum.OrderStatusDelivered:
			stats.Delivered.add(o)
		case enum.OrderStatusDeliveredPendingPayment:
			stats.DeliveredPendingPayment.add(o)
		case enum.OrderStatusCompleted:
			stats.Completed.add(o)
		}
	}
	for _, g := range []*StatusGroupStats{
		&stats.Quotations, &stats.Pending, &stats.Delivered,
		&stats.DeliveredPendingPayment, &stats.Completed,
	} {
		g.round()
	}

	// orders come back newest first
	n := min(recentOrdersLimit, len(orders))
	stats.RecentOrders = orders[:n]

	return stats, nil
}

// CustomerSales is a customer's completed sales in a range
type CustomerSales struct {
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	OrderCount   int             `json:"order_count"`
	Total        decimal.Decimal `json:"total"`
}

// ProductSales is a product's completed sales in a range
type ProductSales struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// StatusSales counts orders per status in a range
type StatusSales struct {
	Status      enum.OrderStatus `json:"status"`
	Translation string           `json:"translation"`
	Count       int              `json:"count"`
	Total       decimal.Decimal  `json:"total"`
}

// MonthlySales is completed sales for one YYYY-MM month
type MonthlySales struct {
	Month      string          `json:"month"`
	OrderCount int             `json:"order_count"`
	Total      decimal.Decimal `json:"total"`
}

func (s *ReportService) ordersIn(ctx context.Context, r DateRange, status *enum.OrderStatus) ([]entity.Order, error) {
	orders, _, err := s.orderRepo.List(ctx, &repository.OrderFilterParams{
		StartDate: r.From,
		EndDate:   r.To,
		Status:    status,
	})
	if err != nil {
		return nil, errors.Wrap(err, "list orders for report")
	}
	return orders, nil
}

func completedStatus() *enum.OrderStatus {
	s := enum.OrderStatusCompleted
	return &s
}

// SalesByCustomer returns the top customers by completed sales
func (s *ReportService) SalesByCustomer(ctx context.Context, r DateRange) ([]CustomerSales, error) {
	orders, err := s.ordersIn(ctx, r, completedStatus())
	if err != nil {
		return nil, err
	}

	byCustomer := make(map[uuid.UUID]*CustomerSales)
	for _, o := range orders {
		cs, ok := byCustomer[o.CustomerID]
		if !ok {
			// orders are newest first, so the first snapshot seen is the latest
			cs = &CustomerSales{CustomerID: o.CustomerID, CustomerName: o.CustomerNameSnapshot, Total: decimal.Zero}
			byCustomer[o.CustomerID] = cs
		}
		cs.OrderCount++
		cs.Total = cs.Total.Add(o.GrandTotal)
	}

	result := make([]CustomerSales, 0, len(byCustomer))
	for _, cs := range byCustomer {
		cs.Total = cs.Total.Round(2)
		result = append(result, *cs)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].CustomerName < result[j].CustomerName
	})
	if len(result) > topReportLimit {
		result = result[:topReportLimit]
	}
	return result, nil
}

// SalesByProduct returns the top products by completed sales
func (s *ReportService) SalesByProduct(ctx context.Context, r DateRange) ([]ProductSales, error) {
	orders, err := s.ordersIn(ctx, r, completedStatus())
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*ProductSales)
	for _, o := range orders {
		for _, section := range o.Sections {
			for _, item := range section.Products {
				ps, ok := byName[item.Name]
				if !ok {
					ps = &ProductSales{Name: item.Name, Quantity: decimal.Zero, Total: decimal.Zero}
					byName[item.Name] = ps
				}
				ps.Quantity = ps.Quantity.Add(item.Quantity)
				ps.Total = ps.Total.Add(item.LineTotal())
			}
		}
	}

	result := make([]ProductSales, 0, len(byName))
	for _, ps := range byName {
		ps.Total = ps.Total.Round(2)
		result = append(result, *ps)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Total.Equal(result[j].Total) {
			return result[i].Total.GreaterThan(result[j].Total)
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > topReportLimit {
		result = result[:topReportLimit]
	}
	return result, nil
}

// SalesByStatus counts every order in the range per status, skipping
// statuses with no orders
func (s *ReportService) SalesByStatus(ctx context.Context, r DateRange) ([]StatusSales, error) {
	orders, err := s.ordersIn(ctx, r, nil)
	if err != nil {
		return nil, err
	}

	statuses := enum.OrderStatuses()
	counts := make([]StatusSales, len(statuses))
	for i, st := range statuses {
		counts[i] = StatusSales{Status: st, Translation: st.Translation(), Total: decimal.Zero}
	}
	for _, o := range orders {
		if !o.Status.IsValid() {
			continue
		}
		counts[o.Status].Count++
		counts[o.Status].Total = counts[o.Status].Total.Add(o.GrandTotal)
	}

	result := make([]StatusSales, 0, len(counts))
	for _, c := range counts {
		if c.Count == 0 {
			continue
		}
		c.Total = c.Total.Round(2)
		result = append(result, c)
	}
	return result, nil
}

// MonthlySales returns completed sales per month, oldest month first
func (s *ReportService) MonthlySales(ctx context.Context, r DateRange) ([]MonthlySales, error) {
	orders, err := s.ordersIn(ctx, r, completedStatus())
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthlySales)
	for _, o := range orders {
		key := o.Date.Format("2006-01")
		ms, ok := byMonth[key]
		if !ok {
			ms = &MonthlySales{Month: key, Total: decimal.Zero}
			byMonth[key] = ms
		}
		ms.OrderCount++
		ms.Total = ms.Total.Add(o.GrandTotal)
	}

	result := make([]MonthlySales, 0, len(byMonth))
	for _, ms := range byMonth {
		ms.Total = ms.Total.Round(2)
		result = append(result, *ms)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month < result[j].Month })
	return result, nil
}

var exportHeaders = []string{
	"Sipariş No", "Tarih", "Müşteri", "Durum", "Para Birimi",
	"Ara Toplam", "İndirim", "İndirimli Toplam", "KDV", "Genel Toplam",
}

// ExportOrders writes the orders in the range as an xlsx workbook to w.
// Amounts are in the canonical currency.
func (s *ReportService) ExportOrders(ctx context.Context, r DateRange, w io.Writer) error {
	orders, err := s.ordersIn(ctx, r, nil)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return errors.Wrap(err, "name sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "create header style")
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return errors.Wrap(err, "write header")
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheetName, "A1", lastHeader, headerStyle); err != nil {
		return errors.Wrap(err, "style header")
	}

	for i, o := range orders {
		row := []any{
			o.OrderNumber,
			o.Date.Format("2006-01-02"),
			o.CustomerNameSnapshot,
			o.Status.Translation(),
			string(o.Currency),
			o.ItemsTotal.InexactFloat64(),
			o.TotalDiscountAmount.InexactFloat64(),
			o.SubTotalAfterDiscounts.InexactFloat64(),
			o.TaxAmount.InexactFloat64(),
			o.GrandTotal.InexactFloat64(),
		}
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(exportSheetName, cell, v); err != nil {
				return errors.Wrapf(err, "write order %s", o.OrderNumber)
			}
		}
	}

	if err := f.SetColWidth(exportSheetName, "A", "C", 22); err != nil {
		return errors.Wrap(err, "set column width")
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	s.log.Info("Orders exported", zap.Int("count", len(orders)))
	return nil
}
