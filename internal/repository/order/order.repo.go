package order

import (
	"context"
	"errors"
	"readafrik-checkout/internal/common/models"
	"readafrik-checkout/internal/pkg/apperr"
	database "readafrik-checkout/internal/pkg/db"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type ListFilter struct {
	Status    string
	Limit     int
	Direction database.DirectionEnum
}

type IRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Upsert(ctx context.Context, order *models.Order) error
	FindByReference(ctx context.Context, reference string) (*models.Order, error)
	List(ctx context.Context, filter ListFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, reference, status string) error
	// MarkNotified stamps notified_at when it is still empty and reports
	// whether this call set it. A missing order is a NotFound error.
	MarkNotified(ctx context.Context, reference string, at time.Time) (bool, error)
	ClearNotified(ctx context.Context, reference string) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Upsert inserts order or, when its reference exists, overwrites the
// provider-derived columns. The pending row written at initialization keeps
// its id and authorization data.
func (r *Repository) Upsert(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reference"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"customer_email",
			"customer_name",
			"customer_phone",
			"amount_kobo",
			"currency",
			"items",
			"status",
			"channel",
			"paid_at",
			"updated_at",
		}),
	}).Create(order).Error
}

func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Order not found", err)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	direction := filter.Direction
	if !direction.IsValid() {
		direction = database.DESC
	}

	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	err := q.Order(clause.OrderByColumn{
		Column: clause.Column{Name: "created_at"},
		Desc:   direction == database.DESC,
	}).Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, reference, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("reference = ?", reference).
		Update("status", status).Error
}

func (r *Repository) MarkNotified(ctx context.Context, reference string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("reference = ? AND notified_at IS NULL", reference).
		Update("notified_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, apperr.NotFound("Order not found", nil)
	}
	return false, nil
}

func (r *Repository) ClearNotified(ctx context.Context, reference string) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("reference = ?", reference).
		Update("notified_at", nil).Error
}
