package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is the local record of a checkout. The provider stays the source of
// truth for payment status; this row exists so verification can be made
// idempotent and orders can be looked up later.
type Order struct {
	ID               string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	Reference        string     `json:"reference" gorm:"type:varchar(100);uniqueIndex;not null"`
	CustomerEmail    string     `json:"customer_email" gorm:"type:varchar(255);not null"`
	CustomerName     string     `json:"customer_name" gorm:"type:varchar(255)"`
	CustomerPhone    string     `json:"customer_phone" gorm:"type:varchar(50)"`
	AmountKobo       int64      `json:"amount_kobo" gorm:"not null"`
	Currency         string     `json:"currency" gorm:"type:varchar(10);not null"`
	Items            JSONB      `json:"items"`
	Metadata         JSONB      `json:"metadata"`
	AuthorizationURL string     `json:"authorization_url" gorm:"type:text"`
	AccessCode       string     `json:"access_code" gorm:"type:varchar(255)"`
	Status           string     `json:"status" gorm:"type:varchar(50);not null;default:'pending';index"`
	Channel          string     `json:"channel" gorm:"type:varchar(50)"`
	PaidAt           *time.Time `json:"paid_at"`
	NotifiedAt       *time.Time `json:"notified_at"`
	CreatedAt        time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(_ *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
