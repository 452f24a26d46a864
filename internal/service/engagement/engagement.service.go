package engagement

import (
	"context"
	"net/http"
	"readafrik-checkout/internal/common/models"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/apperr"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/mailer"
	"readafrik-checkout/internal/pkg/validation"
	"readafrik-checkout/internal/service/notification"
	"strings"
)

const (
	msgSubscribed      = "Subscription successful! Welcome email sent."
	msgSubscribeFailed = "Failed to process subscription. Please try again."
	msgRegistered      = "Registration successful! Confirmation email sent."
	msgRegisterFailed  = "Failed to process registration. Please try again."
	msgInvalidEmail    = "Invalid email format"
	msgMissingFields   = "Missing required fields"
	msgEmailRequired   = "Email is required"
	msgInvalidBody     = "Invalid request body"
)

func (s *Service) Subscribe(ctx context.Context, req *SubscribeRequest) *types.Response {
	req.Email = strings.TrimSpace(req.Email)

	errs, err := validation.Check(req)
	if err != nil {
		return helper.ParseResponse(&types.Response{Error: apperr.Internal("validation unavailable", err)})
	}
	switch {
	case validation.HasTag(errs, "email", "required"):
		return helper.ParseResponse(&types.Response{Error: apperr.Validation(msgEmailRequired)})
	case validation.HasTag(errs, "email", "looseemail"):
		return helper.ParseResponse(&types.Response{Error: apperr.Validation(msgInvalidEmail)})
	case len(errs) > 0:
		return helper.ParseResponse(&types.Response{Error: apperr.Validation(msgInvalidBody)})
	}

	if _, err := s.rp.Engagement.UpsertSubscriber(ctx, req.Email); err != nil {
		logger.Warning.Printf("failed to record subscriber %s: %v", req.Email, err)
	}

	msg, err := s.composer.Subscription(req.Email)
	if err == nil {
		err = s.notifier.Send(ctx, msg)
	}
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: msgSubscribeFailed,
			Error:   apperr.Notification("failed to send welcome email", err),
		})
	}

	if s.adminEmail != "" {
		s.sendAdmin(ctx, func() (*mailer.Message, error) {
			return s.composer.AdminSubscription(s.adminEmail, req.Email, s.now())
		})
	}

	logger.Info.Printf("New subscriber %s", req.Email)
	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: types.ResponseMessage{Success: true, Message: msgSubscribed},
	})
}

func (s *Service) RegisterEvent(ctx context.Context, req *RegisterEventRequest) *types.Response {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.EventTitle = strings.TrimSpace(req.EventTitle)

	errs, err := validation.Check(req)
	if err != nil {
		return helper.ParseResponse(&types.Response{Error: apperr.Internal("validation unavailable", err)})
	}
	switch {
	case validation.HasTag(errs, "name", "required"),
		validation.HasTag(errs, "email", "required"),
		validation.HasTag(errs, "eventTitle", "required"):
		return helper.ParseResponse(&types.Response{Error: apperr.Validation(msgMissingFields)})
	case validation.HasTag(errs, "email", "looseemail"):
		return helper.ParseResponse(&types.Response{Error: apperr.Validation(msgInvalidEmail)})
	case len(errs) > 0:
		return helper.ParseResponse(&types.Response{Error: apperr.Validation(msgInvalidBody)})
	}

	registration := &models.EventRegistration{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		EventID:       req.EventID,
		EventTitle:    req.EventTitle,
		EventDate:     req.EventDate,
		EventTime:     req.EventTime,
		EventLocation: req.EventLocation,
		EventPrice:    req.EventPrice,
	}
	if err := s.rp.Engagement.CreateRegistration(ctx, registration); err != nil {
		logger.Warning.Printf("failed to record registration of %s for %q: %v", req.Email, req.EventTitle, err)
	}

	event := &notification.Event{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		EventTitle:    req.EventTitle,
		EventDate:     helper.FormatLongDate(req.EventDate),
		EventTime:     req.EventTime,
		EventLocation: req.EventLocation,
		EventPrice:    req.EventPrice,
	}

	msg, err := s.composer.EventRegistration(event)
	if err == nil {
		err = s.notifier.Send(ctx, msg)
	}
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: msgRegisterFailed,
			Error:   apperr.Notification("failed to send registration email", err),
		})
	}

	if s.adminEmail != "" {
		s.sendAdmin(ctx, func() (*mailer.Message, error) {
			return s.composer.AdminEventRegistration(s.adminEmail, event)
		})
	}

	logger.Info.Printf("Registered %s for %q", req.Email, req.EventTitle)
	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: types.ResponseMessage{Success: true, Message: msgRegistered},
	})
}

// sendAdmin delivers an admin copy. The user has already been emailed, so a
// failure here is only logged.
func (s *Service) sendAdmin(ctx context.Context, compose func() (*mailer.Message, error)) {
	msg, err := compose()
	if err == nil {
		err = s.notifier.Send(ctx, msg)
	}
	if err != nil {
		logger.Error.Println(apperr.Notification("failed to send admin email", err))
	}
}
