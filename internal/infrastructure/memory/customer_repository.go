package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/repository"
	"github.com/sangkips/evdekor-api/pkg/pagination"
)

// CustomerRepository is the in-memory customers table
type CustomerRepository struct {
	store *Store
}

// NewCustomerRepository creates a customer repository on store
func NewCustomerRepository(store *Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	put(ctx, r.store.customers, customer.ID, *customer)
	return nil
}

func (r *CustomerRepository) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	customer, ok := r.store.customers[id]
	if !ok {
		return nil, nil
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	customer.UpdatedAt = time.Now()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.customers[customer.ID]; !ok {
		return repository.ErrNotFound
	}
	put(ctx, r.store.customers, customer.ID, *customer)
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	remove(ctx, r.store.customers, id)
	return nil
}

func (r *CustomerRepository) List(_ context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	q := strings.ToLower(search)

	r.store.mu.RLock()
	customers := make([]entity.Customer, 0, len(r.store.customers))
	for _, c := range r.store.customers {
		if q != "" && !customerMatches(c, q) {
			continue
		}
		customers = append(customers, c)
	}
	r.store.mu.RUnlock()

	sort.Slice(customers, func(i, j int) bool {
		if customers[i].Name != customers[j].Name {
			return customers[i].Name < customers[j].Name
		}
		return customers[i].ID.String() < customers[j].ID.String()
	})

	return pagination.Slice(customers, params), int64(len(customers)), nil
}

func (r *CustomerRepository) Count(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.customers)), nil
}

func customerMatches(c entity.Customer, q string) bool {
	fields := []*string{&c.Name, c.Email, c.Phone}
	for _, f := range fields {
		if f != nil && strings.Contains(strings.ToLower(*f), q) {
			return true
		}
	}
	return false
}
