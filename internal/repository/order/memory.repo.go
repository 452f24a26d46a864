package order

import (
	"context"
	"readafrik-checkout/internal/common/models"
	"readafrik-checkout/internal/pkg/apperr"
	database "readafrik-checkout/internal/pkg/db"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps orders in process. It backs local runs without a
// database and the service tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
	now    func() time.Time
}

func NewMemoryRepo() *MemoryRepository {
	return &MemoryRepository{
		orders: make(map[string]*models.Order),
		now:    time.Now,
	}
}

func (r *MemoryRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.Reference]; ok {
		return apperr.Validation("order " + order.Reference + " already exists")
	}
	r.insert(order)
	return nil
}

func (r *MemoryRepository) Upsert(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.orders[order.Reference]
	if !ok {
		r.insert(order)
		return nil
	}

	existing.CustomerEmail = order.CustomerEmail
	existing.CustomerName = order.CustomerName
	existing.CustomerPhone = order.CustomerPhone
	existing.AmountKobo = order.AmountKobo
	existing.Currency = order.Currency
	existing.Items = order.Items
	existing.Status = order.Status
	existing.Channel = order.Channel
	existing.PaidAt = order.PaidAt
	existing.UpdatedAt = r.now()
	return nil
}

func (r *MemoryRepository) insert(order *models.Order) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := r.now()
	order.CreatedAt, order.UpdatedAt = now, now
	stored := *order
	r.orders[order.Reference] = &stored
}

func (r *MemoryRepository) FindByReference(_ context.Context, reference string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[reference]
	if !ok {
		return nil, apperr.NotFound("Order not found", nil)
	}
	out := *o
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}

	asc := filter.Direction == database.ASC
	sort.Slice(out, func(i, j int) bool {
		if asc {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit, len(out))
	return out[:limit], nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, reference, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.orders[reference]; ok {
		o.Status = status
		o.UpdatedAt = r.now()
	}
	return nil
}

func (r *MemoryRepository) MarkNotified(_ context.Context, reference string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[reference]
	if !ok {
		return false, apperr.NotFound("Order not found", nil)
	}
	if o.NotifiedAt != nil {
		return false, nil
	}
	o.NotifiedAt = &at
	return true, nil
}

func (r *MemoryRepository) ClearNotified(_ context.Context, reference string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o, ok := r.orders[reference]; ok {
		o.NotifiedAt = nil
	}
	return nil
}
