package memory

import (
	"context"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/pkg/pagination"
)

// ErrDuplicateOrderNumber is returned when an order number is already taken
var ErrDuplicateOrderNumber = errors.New("duplicate order number")

// OrderRepository is the in-memory orders table
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates an order repository on store
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.orders {
		if existing.OrderNumber == order.OrderNumber {
			return errors.Wrap(ErrDuplicateOrderNumber, order.OrderNumber)
		}
	}
	put(ctx, r.store.orders, order.ID, cloneOrder(*order))
	return nil
}

func (r *OrderRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	order, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	order = cloneOrder(order)
	return &order, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *entity.Order) error {
	order.UpdatedAt = time.Now()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	put(ctx, r.store.orders, order.ID, cloneOrder(*order))
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	remove(ctx, r.store.orders, id)
	return nil
}

func (r *OrderRepository) List(_ context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.store.mu.RLock()
	orders := make([]entity.Order, 0, len(r.store.orders))
	for _, o := range r.store.orders {
		if !params.Matches(&o) {
			continue
		}
		orders = append(orders, cloneOrder(o))
	}
	r.store.mu.RUnlock()

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].Date.Equal(orders[j].Date) {
			return orders[i].Date.After(orders[j].Date)
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
	}
	return pagination.Slice(orders, page), int64(len(orders)), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	order, ok := r.store.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	put(ctx, r.store.orders, id, order)
	return nil
}

// cloneOrder copies the slices so callers never share backing arrays with the store
func cloneOrder(o entity.Order) entity.Order {
	sections := make([]entity.OrderSection, len(o.Sections))
	for i, s := range o.Sections {
		s.Products = append([]entity.ProductItem(nil), s.Products...)
		sections[i] = s
	}
	o.Sections = sections
	o.Discounts = append([]entity.Discount(nil), o.Discounts...)
	if o.TaxRate != nil {
		rate := *o.TaxRate
		o.TaxRate = &rate
	}
	if o.Notes != nil {
		notes := *o.Notes
		o.Notes = &notes
	}
	return o
}
