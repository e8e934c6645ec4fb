package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/pkg/apperror"
	"github.com/sangkips/evdekor-api/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Ayşe Yılmaz")

	in := draft(c.ID)
	in.Discounts = []entity.Discount{{Type: enum.DiscountTypePercentage, Value: d("10")}}
	rate := d("10")
	in.TaxRate = &rate

	order, err := env.orders.CreateOrder(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "SİP-2024-0001", order.OrderNumber)
	assert.Equal(t, "Ayşe Yılmaz", order.CustomerNameSnapshot)
	assert.True(t, order.ExchangeRatesSnapshot.USD.Equal(d("32.50")))
	assert.True(t, order.ExchangeRatesSnapshot.EUR.Equal(d("35.20")))
	assert.Equal(t, "200", order.ItemsTotal.String())
	assert.Equal(t, "20", order.TotalDiscountAmount.String())
	assert.Equal(t, "180", order.SubTotalAfterDiscounts.String())
	assert.Equal(t, "18", order.TaxAmount.String())
	assert.Equal(t, "198", order.GrandTotal.String())
	assert.NotEqual(t, uuid.Nil, order.Sections[0].ID)
	assert.NotEqual(t, uuid.Nil, order.Sections[0].Products[0].ID)
	assert.NotEqual(t, uuid.Nil, order.Discounts[0].ID)

	stored, err := env.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)
}

func TestCreateOrderNumbersAreSequential(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Mehmet")

	for i, want := range []string{"SİP-2024-0001", "SİP-2024-0002", "SİP-2024-0003"} {
		order, err := env.orders.CreateOrder(ctx, draft(c.ID))
		require.NoError(t, err, "order %d", i)
		assert.Equal(t, want, order.OrderNumber)
	}
}

func TestCreateOrderConcurrentNumbersNeverCollide(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Mehmet")

	const n = 20
	numbers := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			order, err := env.orders.CreateOrder(ctx, draft(c.ID))
			if assert.NoError(t, err) {
				numbers <- order.OrderNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seqs := make(map[int64]bool)
	for number := range numbers {
		_, _, seq, err := ParseOrderNumber(number)
		require.NoError(t, err)
		assert.False(t, seqs[seq], "duplicate %s", number)
		seqs[seq] = true
	}
	for i := int64(1); i <= n; i++ {
		assert.True(t, seqs[i], "missing sequence %d", i)
	}
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	env := newTestEnv(t, nil)

	order, err := env.orders.CreateOrder(context.Background(), draft(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, "Bilinmeyen Müşteri", order.CustomerNameSnapshot)
}

func TestCreateOrderValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Ali")

	tests := []struct {
		name  string
		edit  func(*OrderDraft)
		field string
	}{
		{"missing customer", func(o *OrderDraft) { o.CustomerID = uuid.Nil }, "customer_id"},
		{"no sections", func(o *OrderDraft) { o.Sections = nil }, "sections"},
		{"empty section", func(o *OrderDraft) { o.Sections[0].Products = nil }, "sections"},
		{"zero quantity", func(o *OrderDraft) { o.Sections[0].Products[0].Quantity = d("0") }, "sections[0].products[0].quantity"},
		{"negative price", func(o *OrderDraft) { o.Sections[0].Products[0].UnitPrice = d("-1") }, "sections[0].products[0].unit_price"},
		{"bad discount type", func(o *OrderDraft) {
			o.Discounts = []entity.Discount{{Type: "bogus", Value: d("1")}}
		}, "discounts[0].type"},
		{"negative discount", func(o *OrderDraft) {
			o.Discounts = []entity.Discount{{Type: enum.DiscountTypeAmount, Value: d("-5")}}
		}, "discounts[0].value"},
		{"negative tax", func(o *OrderDraft) { r := d("-1"); o.TaxRate = &r }, "tax_rate"},
		{"tax with three decimals", func(o *OrderDraft) { r := d("12.345"); o.TaxRate = &r }, "tax_rate"},
		{"tax too large", func(o *OrderDraft) { r := d("1000"); o.TaxRate = &r }, "tax_rate"},
		{"bad currency", func(o *OrderDraft) { o.Currency = "GBP" }, "currency"},
		{"bad status", func(o *OrderDraft) { o.Status = enum.OrderStatus(42) }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := draft(c.ID)
			tt.edit(in)

			_, err := env.orders.CreateOrder(ctx, in)
			require.Error(t, err)
			appErr := apperror.GetAppError(err)
			assert.Equal(t, 422, appErr.Code)

			var fields []string
			for _, fe := range appErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	// nothing was written and no number was consumed
	list, err := env.orders.ListOrders(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	order, err := env.orders.CreateOrder(ctx, draft(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "SİP-2024-0001", order.OrderNumber)
}

func TestCreateOrderTaxRateBounds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Selin")

	for _, rate := range []string{"0", "12.50", "999.99"} {
		in := draft(c.ID)
		r := d(rate)
		in.TaxRate = &r

		order, err := env.orders.CreateOrder(ctx, in)
		require.NoError(t, err, rate)
		assert.True(t, r.Equal(*order.TaxRate), rate)
	}
}

func TestCreateOrderDefaultsCurrencyToDisplayCurrency(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	require.NoError(t, env.settings.SetCurrentCurrency(ctx, money.EUR))

	in := draft(env.customer(t, "Ali").ID)
	in.Currency = ""
	order, err := env.orders.CreateOrder(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, money.EUR, order.Currency)
}

func TestUpdateOrderKeepsNumberAndRefreshesSnapshots(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Zeynep")

	order, err := env.orders.CreateOrder(ctx, draft(c.ID))
	require.NoError(t, err)

	_, err = env.settings.UpdateExchangeRates(ctx, money.ExchangeRates{USD: d("40"), EUR: d("44")})
	require.NoError(t, err)
	newName := "Zeynep Kaya"
	_, err = env.customers.UpdateCustomer(ctx, &UpdateCustomerInput{ID: c.ID, Name: &newName})
	require.NoError(t, err)

	// stored order is untouched until it is edited
	stored, err := env.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Zeynep", stored.CustomerNameSnapshot)
	assert.Equal(t, "32.5", stored.ExchangeRatesSnapshot.USD.String())

	in := draft(c.ID, entity.ProductItem{Name: "Stor", Quantity: d("3"), Unit: "M2", UnitPrice: d("50")})
	updated, err := env.orders.UpdateOrder(ctx, order.ID, in)
	require.NoError(t, err)

	assert.Equal(t, order.ID, updated.ID)
	assert.Equal(t, order.OrderNumber, updated.OrderNumber)
	assert.Equal(t, order.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Zeynep Kaya", updated.CustomerNameSnapshot)
	assert.Equal(t, "40", updated.ExchangeRatesSnapshot.USD.String())
	assert.Equal(t, "150", updated.GrandTotal.String())
}

func TestUpdateOrderKeepsSnapshotWhenCustomerDeleted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Hasan")

	order, err := env.orders.CreateOrder(ctx, draft(c.ID))
	require.NoError(t, err)
	require.NoError(t, env.customers.DeleteCustomer(ctx, c.ID))

	stored, err := env.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hasan", stored.CustomerNameSnapshot)

	updated, err := env.orders.UpdateOrder(ctx, order.ID, draft(c.ID))
	require.NoError(t, err)
	assert.Equal(t, "Hasan", updated.CustomerNameSnapshot)

	list, err := env.orders.ListCustomerOrders(ctx, c.ID, nil)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestUpdateOrderNotFound(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.orders.UpdateOrder(context.Background(), uuid.New(), draft(uuid.New()))
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Elif")

	keep, err := env.orders.CreateOrder(ctx, draft(c.ID))
	require.NoError(t, err)
	drop, err := env.orders.CreateOrder(ctx, draft(c.ID))
	require.NoError(t, err)

	require.NoError(t, env.orders.DeleteOrder(ctx, drop.ID))
	assert.True(t, apperror.IsNotFound(env.orders.DeleteOrder(ctx, drop.ID)))

	_, err = env.orders.GetOrder(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestDeleteRacingUpdateStaysDeleted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Emre")

	for round := 0; round < 20; round++ {
		order, err := env.orders.CreateOrder(ctx, draft(c.ID))
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				var err error
				switch i % 3 {
				case 0:
					err = env.orders.DeleteOrder(ctx, order.ID)
				case 1:
					_, err = env.orders.UpdateOrder(ctx, order.ID, draft(c.ID))
				default:
					_, err = env.orders.UpdateOrderStatus(ctx, order.ID, enum.OrderStatusCompleted)
				}
				if err != nil {
					assert.True(t, apperror.IsNotFound(err), err.Error())
				}
			}(i)
		}
		wg.Wait()

		_, err = env.orders.GetOrder(ctx, order.ID)
		assert.True(t, apperror.IsNotFound(err), "order %s came back after delete", order.OrderNumber)
	}
}

func TestUpdateOrderStatusAnyTransition(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	order, err := env.orders.CreateOrder(ctx, draft(env.customer(t, "Can").ID))
	require.NoError(t, err)

	for _, st := range []enum.OrderStatus{enum.OrderStatusCompleted, enum.OrderStatusQuotation, enum.OrderStatusCancelled} {
		updated, err := env.orders.UpdateOrderStatus(ctx, order.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, updated.Status)
	}

	stored, err := env.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, stored.Status)
	assert.Equal(t, order.GrandTotal, stored.GrandTotal)

	_, err = env.orders.UpdateOrderStatus(ctx, uuid.New(), enum.OrderStatusPending)
	assert.True(t, apperror.IsNotFound(err))
}

func TestBulkUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	c := env.customer(t, "Deniz")

	a, err := env.orders.CreateOrder(ctx, draft(c.ID))
	require.NoError(t, err)
	b, err := env.orders.CreateOrder(ctx, draft(c.ID))
	require.NoError(t, err)
	missing := uuid.New()

	result, err := env.orders.BulkUpdateOrderStatus(ctx, []uuid.UUID{a.ID, missing, b.ID}, enum.OrderStatusDelivered)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, result.Updated)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, missing, result.Failed[0].ID)
	require.Error(t, result.Err())
	assert.Contains(t, result.Err().Error(), missing.String())

	warnings := env.logs.FilterLevelExact(zap.WarnLevel).FilterMessage("Bulk status update had failures")
	assert.Equal(t, 1, warnings.Len())

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		o, err := env.orders.GetOrder(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, enum.OrderStatusDelivered, o.Status)
	}
}

func TestBulkUpdateOrderStatusRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.orders.BulkUpdateOrderStatus(context.Background(), nil, enum.OrderStatusPending)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = env.orders.BulkUpdateOrderStatus(context.Background(), []uuid.UUID{uuid.New()}, enum.OrderStatus(-1))
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestListOrdersFilters(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	ayse := env.customer(t, "Ayşe")
	ali := env.customer(t, "Ali")

	_, err := env.orders.CreateOrder(ctx, draft(ayse.ID))
	require.NoError(t, err)
	second, err := env.orders.CreateOrder(ctx, draft(ali.ID))
	require.NoError(t, err)

	res, err := env.orders.ListOrders(ctx, &repository.OrderFilterParams{Search: "0002"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, second.ID, res.Items[0].ID)

	res, err = env.orders.ListOrders(ctx, &repository.OrderFilterParams{CustomerID: &ayse.ID})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ayşe", res.Items[0].CustomerNameSnapshot)
	assert.EqualValues(t, 1, res.Pagination.Total)
}

func TestOrderTotalsInUsesOrderSnapshot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	in := draft(env.customer(t, "Ece").ID, entity.ProductItem{Name: "Perde", Quantity: d("1"), UnitPrice: d("3250")})
	order, err := env.orders.CreateOrder(ctx, in)
	require.NoError(t, err)

	_, err = env.settings.UpdateExchangeRates(ctx, money.ExchangeRates{USD: d("50"), EUR: d("55")})
	require.NoError(t, err)

	totals := env.orders.OrderTotalsIn(order, money.USD)
	assert.Equal(t, money.USD, totals.Currency)
	assert.Equal(t, "100", totals.GrandTotal.String())
	assert.Equal(t, "$100,00", totals.FormattedGrandTotal)

	totals = env.orders.OrderTotalsIn(order, "")
	assert.Equal(t, money.TRY, totals.Currency)
	assert.Equal(t, "3250", totals.GrandTotal.String())
}
