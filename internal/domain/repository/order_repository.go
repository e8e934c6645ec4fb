package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/evdekor-api/internal/domain/entity"
	"github.com/sangkips/evdekor-api/internal/domain/enum"
	"github.com/sangkips/evdekor-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// GetByID returns nil, nil when the order does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns orders newest date first
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	// UpdateStatus writes only the status column
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
}

// OrderFilterParams contains filtering parameters for order queries.
// A nil Pagination returns every match.
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// Matches reports whether o passes every filter except pagination
func (p *OrderFilterParams) Matches(o *entity.Order) bool {
	if p == nil {
		return true
	}
	if p.Search != "" {
		q := strings.ToLower(p.Search)
		if !strings.Contains(strings.ToLower(o.OrderNumber), q) &&
			!strings.Contains(strings.ToLower(o.CustomerNameSnapshot), q) {
			return false
		}
	}
	if p.Status != nil && o.Status != *p.Status {
		return false
	}
	if p.CustomerID != nil && o.CustomerID != *p.CustomerID {
		return false
	}
	if p.StartDate != nil && o.Date.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && o.Date.After(*p.EndDate) {
		return false
	}
	return true
}
