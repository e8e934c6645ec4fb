package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compile-time interface checks
var (
	_ repository.CustomerRepository    = (*CustomerRepository)(nil)
	_ repository.OrderRepository       = (*OrderRepository)(nil)
	_ repository.SettingsRepository    = (*SettingsRepository)(nil)
	_ repository.SequenceRepository    = (*SettingsRepository)(nil)
	_ repository.IdempotencyRepository = (*IdempotencyRepository)(nil)
	_ repository.Transactor            = (*Store)(nil)
)

func TestWithinTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	customers := NewCustomerRepository(store)
	settings := NewSettingsRepository(store)

	require.NoError(t, customers.Create(ctx, &entity.Customer{Name: "Kept"}))

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, customers.Create(ctx, &entity.Customer{Name: "Dropped"}))
		_, err := settings.Next(ctx, entity.SettingOrderCounter)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := customers.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	next, err := settings.Next(ctx, entity.SettingOrderCounter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, next)
}

func TestRollbackKeepsWritesMadeOutsideTransaction(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	customers := NewCustomerRepository(store)
	settings := NewSettingsRepository(store)

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- store.WithinTransaction(ctx, func(ctx context.Context) error {
			if _, err := settings.Next(ctx, entity.SettingOrderCounter); err != nil {
				return err
			}
			close(inside)
			<-release
			return errors.New("boom")
		})
	}()

	<-inside
	outside := &entity.Customer{Name: "Concurrent"}
	require.NoError(t, customers.Create(ctx, outside))
	require.NoError(t, settings.Set(ctx, "companyInfo", map[string]string{"name": "Evdekor"}))
	close(release)
	require.Error(t, <-done)

	got, err := customers.GetByID(ctx, outside.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "customer written outside the transaction was rolled back")
	assert.Equal(t, "Concurrent", got.Name)

	var company map[string]string
	found, err := settings.Get(ctx, "companyInfo", &company)
	require.NoError(t, err)
	assert.True(t, found)

	next, err := settings.Next(ctx, entity.SettingOrderCounter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, next)
}

func TestRollbackRestoresUpdatedAndDeletedRows(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	orders := NewOrderRepository(store)

	kept := &entity.Order{OrderNumber: "SİP-2024-0001", CustomerNameSnapshot: "Ayşe"}
	gone := &entity.Order{OrderNumber: "SİP-2024-0002", CustomerNameSnapshot: "Ali"}
	require.NoError(t, orders.Create(ctx, kept))
	require.NoError(t, orders.Create(ctx, gone))

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		renamed := *kept
		renamed.CustomerNameSnapshot = "Changed"
		require.NoError(t, orders.Update(ctx, &renamed))
		require.NoError(t, orders.UpdateStatus(ctx, kept.ID, enum.OrderStatusCompleted))
		require.NoError(t, orders.Delete(ctx, gone.ID))
		return errors.New("boom")
	})
	require.Error(t, err)

	got, err := orders.GetByID(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ayşe", got.CustomerNameSnapshot)
	assert.Equal(t, enum.OrderStatusQuotation, got.Status)

	got, err = orders.GetByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestUpdateMissingRowDoesNotInsert(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	orders := NewOrderRepository(store)
	customers := NewCustomerRepository(store)

	order := &entity.Order{OrderNumber: "SİP-2024-0001"}
	require.NoError(t, orders.Create(ctx, order))
	require.NoError(t, orders.Delete(ctx, order.ID))

	assert.ErrorIs(t, orders.Update(ctx, order), repository.ErrNotFound)
	assert.ErrorIs(t, orders.UpdateStatus(ctx, order.ID, enum.OrderStatusPending), repository.ErrNotFound)
	got, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, customers.Update(ctx, &entity.Customer{Name: "Ghost"}), repository.ErrNotFound)
	n, err := customers.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWithinTransactionNested(t *testing.T) {
	store := NewStore()
	customers := NewCustomerRepository(store)

	err := store.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return store.WithinTransaction(ctx, func(ctx context.Context) error {
			return customers.Create(ctx, &entity.Customer{Name: "Inner"})
		})
	})
	require.NoError(t, err)

	n, _ := customers.Count(context.Background())
	assert.EqualValues(t, 1, n)
}

func TestSequenceIsUniqueUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	settings := NewSettingsRepository(NewStore())

	const workers = 50
	seen := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := settings.Next(ctx, "counter")
			assert.NoError(t, err)
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for n := range seen {
		assert.False(t, unique[n], "duplicate value %d", n)
		unique[n] = true
	}
	assert.Len(t, unique, workers)
	for i := int64(1); i <= workers; i++ {
		assert.True(t, unique[i])
	}
}

func TestOrderRepositoryListAndIsolation(t *testing.T) {
	ctx := context.Background()
	orders := NewOrderRepository(NewStore())

	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	older := &entity.Order{OrderNumber: "SİP-2024-0001", CustomerNameSnapshot: "Ayşe", Date: day(1)}
	newer := &entity.Order{
		OrderNumber:          "SİP-2024-0002",
		CustomerNameSnapshot: "Mehmet",
		Date:                 day(5),
		Sections: []entity.OrderSection{{Name: "Salon", Products: []entity.ProductItem{
			{Name: "Perde", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)},
		}}},
	}
	require.NoError(t, orders.Create(ctx, older))
	require.NoError(t, orders.Create(ctx, newer))

	dup := &entity.Order{OrderNumber: "SİP-2024-0001"}
	assert.ErrorIs(t, orders.Create(ctx, dup), ErrDuplicateOrderNumber)

	list, total, err := orders.List(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "SİP-2024-0002", list[0].OrderNumber)

	// mutating a returned order must not leak into the store
	list[0].Sections[0].Products[0].Name = "changed"
	got, err := orders.GetByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Perde", got.Sections[0].Products[0].Name)

	status := enum.OrderStatusCompleted
	list, total, err = orders.List(ctx, &repository.OrderFilterParams{Search: "ayş"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, older.ID, list[0].ID)

	require.NoError(t, orders.UpdateStatus(ctx, older.ID, status))
	list, _, err = orders.List(ctx, &repository.OrderFilterParams{Status: &status})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, older.ID, list[0].ID)
}

func TestIdempotencyDeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewIdempotencyRepository(NewStore())

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "a", Endpoint: "POST /x", ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "b", Endpoint: "POST /x", ExpiresAt: time.Now().Add(time.Hour)}))

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := repo.GetByKey(ctx, "b", "POST /x")
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = repo.GetByKey(ctx, "b", "POST /y")
	require.NoError(t, err)
	assert.Nil(t, got)
}
