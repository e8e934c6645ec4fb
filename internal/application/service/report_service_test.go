package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedReportOrders(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	ayse := env.customer(t, "Ayşe")
	ali := env.customer(t, "Ali")

	create := func(customer *entity.Customer, date time.Time, status enum.OrderStatus, items ...entity.ProductItem) {
		in := draft(customer.ID, items...)
		in.Date = date
		in.Status = status
		_, err := env.orders.CreateOrder(ctx, in)
		require.NoError(t, err)
	}

	mar := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	apr := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	create(ayse, mar, enum.OrderStatusCompleted,
		entity.ProductItem{Name: "Stor", Quantity: d("2"), UnitPrice: d("100")})
	create(ayse, apr, enum.OrderStatusCompleted,
		entity.ProductItem{Name: "Stor", Quantity: d("1"), UnitPrice: d("100")},
		entity.ProductItem{Name: "Tül", Quantity: d("3"), UnitPrice: d("10")})
	create(ali, apr, enum.OrderStatusCompleted,
		entity.ProductItem{Name: "Tül", Quantity: d("5"), UnitPrice: d("10")})
	create(ali, apr, enum.OrderStatusPending,
		entity.ProductItem{Name: "Korniş", Quantity: d("1"), UnitPrice: d("999")})
	create(ali, apr, enum.OrderStatusQuotation,
		entity.ProductItem{Name: "Korniş", Quantity: d("1"), UnitPrice: d("1")})
}

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t, nil)
	seedReportOrders(t, env)

	stats, err := env.reports.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalCustomers)
	assert.EqualValues(t, 5, stats.TotalOrders)
	assert.EqualValues(t, 3, stats.Completed.Count)
	assert.Equal(t, "380", stats.Completed.Total.String())
	assert.EqualValues(t, 1, stats.Pending.Count)
	assert.EqualValues(t, 1, stats.Quotations.Count)
	assert.EqualValues(t, 0, stats.Delivered.Count)
	// 999 / 32.50
	assert.Equal(t, "30.74", stats.Pending.Totals[money.USD].String())
	assert.Len(t, stats.RecentOrders, 5)
}

func TestSalesReports(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	seedReportOrders(t, env)

	all := DateRange{}

	byCustomer, err := env.reports.SalesByCustomer(ctx, all)
	require.NoError(t, err)
	require.Len(t, byCustomer, 2)
	assert.Equal(t, "Ayşe", byCustomer[0].CustomerName)
	assert.Equal(t, "330", byCustomer[0].Total.String())
	assert.Equal(t, 2, byCustomer[0].OrderCount)

	byProduct, err := env.reports.SalesByProduct(ctx, all)
	require.NoError(t, err)
	require.Len(t, byProduct, 2)
	assert.Equal(t, "Stor", byProduct[0].Name)
	assert.Equal(t, "3", byProduct[0].Quantity.String())
	assert.Equal(t, "Tül", byProduct[1].Name)
	assert.Equal(t, "80", byProduct[1].Total.String())

	byStatus, err := env.reports.SalesByStatus(ctx, all)
	require.NoError(t, err)
	require.Len(t, byStatus, 3)
	assert.Equal(t, enum.OrderStatusQuotation, byStatus[0].Status)
	assert.Equal(t, "Teklif", byStatus[0].Translation)
	assert.Equal(t, 3, byStatus[2].Count)

	monthly, err := env.reports.MonthlySales(ctx, all)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-03", monthly[0].Month)
	assert.Equal(t, "200", monthly[0].Total.String())
	assert.Equal(t, "2024-04", monthly[1].Month)
	assert.Equal(t, "180", monthly[1].Total.String())

	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	monthly, err = env.reports.MonthlySales(ctx, DateRange{From: &from})
	require.NoError(t, err)
	require.Len(t, monthly, 1)
}

func TestExportOrders(t *testing.T) {
	env := newTestEnv(t, nil)
	seedReportOrders(t, env)

	var buf bytes.Buffer
	require.NoError(t, env.reports.ExportOrders(context.Background(), DateRange{}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, exportHeaders[0], rows[0][0])
	assert.Contains(t, rows[1][0], "SİP-2024-")
}
