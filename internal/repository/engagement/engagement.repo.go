package engagement

import (
	"context"
	"readafrik-checkout/internal/common/models"
	database "readafrik-checkout/internal/pkg/db"
	"strings"

	"gorm.io/gorm/clause"
)

type IRepository interface {
	UpsertSubscriber(ctx context.Context, email string) (*models.Subscriber, error)
	CreateRegistration(ctx context.Context, registration *models.EventRegistration) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

// UpsertSubscriber records email once; subscribing again only touches
// updated_at.
func (r *Repository) UpsertSubscriber(ctx context.Context, email string) (*models.Subscriber, error) {
	sub := &models.Subscriber{Email: strings.ToLower(strings.TrimSpace(email))}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(sub).Error
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *Repository) CreateRegistration(ctx context.Context, registration *models.EventRegistration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}
