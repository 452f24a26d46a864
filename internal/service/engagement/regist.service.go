package engagement

import (
	"context"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/mailer"
	"readafrik-checkout/internal/repository"
	"readafrik-checkout/internal/service/notification"
	"time"
)

type Service struct {
	rp         repository.IRepository
	notifier   mailer.Notifier
	composer   notification.IComposer
	adminEmail string
	now        func() time.Time
}

type IService interface {
	Subscribe(ctx context.Context, req *SubscribeRequest) *types.Response
	RegisterEvent(ctx context.Context, req *RegisterEventRequest) *types.Response
}

func NewService(rp repository.IRepository, notifier mailer.Notifier, composer notification.IComposer, adminEmail string) IService {
	return &Service{
		rp:         rp,
		notifier:   notifier,
		composer:   composer,
		adminEmail: adminEmail,
		now:        time.Now,
	}
}

// Request DTOs

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,looseemail"`
}

type RegisterEventRequest struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,looseemail"`
	Phone         string `json:"phone"`
	EventID       string `json:"eventId"`
	EventTitle    string `json:"eventTitle" validate:"required"`
	EventDate     string `json:"eventDate"`
	EventTime     string `json:"eventTime"`
	EventLocation string `json:"eventLocation"`
	EventPrice    string `json:"eventPrice"`
}
