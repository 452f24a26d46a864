package engagement

import (
	"context"
	"readafrik-checkout/internal/common/models"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is the in-process variant used without a database.
type MemoryRepository struct {
	mu            sync.Mutex
	subscribers   map[string]*models.Subscriber
	registrations []models.EventRegistration
}

func NewMemoryRepo() *MemoryRepository {
	return &MemoryRepository{subscribers: make(map[string]*models.Subscriber)}
}

func (r *MemoryRepository) UpsertSubscriber(_ context.Context, email string) (*models.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now().UTC()
	if sub, ok := r.subscribers[email]; ok {
		sub.UpdatedAt = now
		out := *sub
		return &out, nil
	}

	sub := &models.Subscriber{ID: uuid.NewString(), Email: email, SubscribedAt: now, UpdatedAt: now}
	r.subscribers[email] = sub
	out := *sub
	return &out, nil
}

func (r *MemoryRepository) CreateRegistration(_ context.Context, registration *models.EventRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	registration.CreatedAt = time.Now().UTC()
	r.registrations = append(r.registrations, *registration)
	return nil
}

// Registrations returns a copy of everything recorded so far.
func (r *MemoryRepository) Registrations() []models.EventRegistration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.EventRegistration(nil), r.registrations...)
}
