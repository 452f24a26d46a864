package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subscriber struct {
	ID           string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	SubscribedAt time.Time `json:"subscribed_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Subscriber) TableName() string {
	return "subscribers"
}

func (s *Subscriber) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type EventRegistration struct {
	ID            string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name          string    `json:"name" gorm:"type:varchar(255);not null"`
	Email         string    `json:"email" gorm:"type:varchar(255);not null;index"`
	Phone         string    `json:"phone" gorm:"type:varchar(50)"`
	EventID       string    `json:"event_id" gorm:"type:varchar(100);index"`
	EventTitle    string    `json:"event_title" gorm:"type:varchar(255);not null"`
	EventDate     string    `json:"event_date" gorm:"type:varchar(100)"`
	EventTime     string    `json:"event_time" gorm:"type:varchar(100)"`
	EventLocation string    `json:"event_location" gorm:"type:varchar(255)"`
	EventPrice    string    `json:"event_price" gorm:"type:varchar(100)"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}

func (r *EventRegistration) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
