package payment

import (
	"context"
	"net/http"
	"readafrik-checkout/internal/common/enum"
	"readafrik-checkout/internal/common/models"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/apperr"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/logger"
	"readafrik-checkout/internal/pkg/paystack"
	"readafrik-checkout/internal/pkg/validation"
	"strings"
	"time"

	"github.com/samber/lo"
)

const (
	guestName = "Guest"

	msgInitFailed   = "Payment initialization failed"
	msgVerifyFailed = "Payment verification failed"
	msgNotSuccess   = "Payment was not successful"
	msgConfigError  = "Payment system configuration error"
)

func (s *Service) InitializePayment(ctx context.Context, req *InitializePaymentRequest) *types.Response {
	if err := validateIntent(req); err != nil {
		return helper.ParseResponse(&types.Response{Error: err})
	}

	if !s.paystack.Configured() {
		return helper.ParseResponse(&types.Response{Error: apperr.Configuration(msgConfigError)})
	}

	reference := paystack.GenerateReference()
	metadata := &paystack.Metadata{
		CartItems:     lo.Ternary(req.CartItems == nil, []types.CartItem{}, req.CartItems),
		CustomerName:  lo.Ternary(strings.TrimSpace(req.CustomerName) == "", guestName, req.CustomerName),
		CustomerPhone: req.CustomerPhone,
		PaymentDate:   s.now().UTC().Format(time.RFC3339Nano),
	}
	amountKobo := paystack.ToKobo(*req.Amount)

	resp, err := s.paystack.InitializeTransaction(ctx, &paystack.InitializeRequest{
		Email:       req.Email,
		Amount:      amountKobo,
		Reference:   reference,
		Metadata:    metadata,
		Currency:    s.cfg.Currency,
		Channels:    paystack.DefaultChannels,
		CallbackURL: strings.TrimRight(s.cfg.AppBaseURL, "/") + "/payment/callback",
	})
	if err != nil {
		message := msgInitFailed
		if resp != nil && strings.TrimSpace(resp.Message) != "" {
			message = resp.Message
		}
		return helper.ParseResponse(&types.Response{Error: apperr.Provider(message, err)})
	}

	order := &models.Order{
		Reference:        reference,
		CustomerEmail:    req.Email,
		CustomerName:     metadata.CustomerName,
		CustomerPhone:    metadata.CustomerPhone,
		AmountKobo:       amountKobo,
		Currency:         s.cfg.Currency,
		Items:            models.NewJSONB(metadata.CartItems),
		Metadata:         models.NewJSONB(metadata),
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Status:           enum.PENDING.ToString(),
	}
	if err := s.rp.Order.Create(ctx, order); err != nil {
		logger.Warning.Printf("failed to record pending order %s: %v", reference, err)
	}

	logger.Info.Printf("Initialized payment %s for %s (%d kobo)", reference, req.Email, amountKobo)

	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: InitializePaymentResponse{
			Success:          true,
			Reference:        reference,
			AuthorizationURL: resp.Data.AuthorizationURL,
			AccessCode:       resp.Data.AccessCode,
			PublicKey:        s.paystack.PublicKey(),
		},
	})
}

// validateIntent applies the purchase intent rules in the order clients
// expect the messages.
func validateIntent(req *InitializePaymentRequest) error {
	errs, err := validation.Check(req)
	if err != nil {
		return apperr.Internal("validation unavailable", err)
	}

	switch {
	case validation.HasTag(errs, "email", "required"), validation.HasTag(errs, "amount", "required"):
		return apperr.Validation("Email and amount are required")
	case validation.HasTag(errs, "email", "looseemail"):
		return apperr.Validation("Invalid email format")
	case validation.HasTag(errs, "amount", "gt"):
		return apperr.Validation("Amount must be greater than zero")
	case len(errs) > 0:
		return apperr.Validation("Invalid request body")
	}
	return nil
}

func (s *Service) VerifyPayment(ctx context.Context, reference string) *types.Response {
	result, err := s.Verify(ctx, reference)
	if err != nil {
		return helper.ParseResponse(&types.Response{Error: err})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: result})
}

// Verify asks the provider for the state of reference. Emails and order
// bookkeeping are best-effort and never change the result.
func (s *Service) Verify(ctx context.Context, reference string) (*types.PaymentVerification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperr.Validation("Payment reference is required")
	}
	if !s.paystack.Configured() {
		return nil, apperr.Configuration(msgConfigError)
	}

	resp, err := s.paystack.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, apperr.Provider(msgVerifyFailed, err)
	}

	tx := &resp.Data
	if tx.Status != enum.SUCCESS.ToString() {
		if err := s.rp.Order.UpdateStatus(ctx, reference, tx.Status); err != nil {
			logger.Warning.Printf("failed to record status %q for %s: %v", tx.Status, reference, err)
		}
		return &types.PaymentVerification{
			Success: false,
			Status:  tx.Status,
			Message: msgNotSuccess,
		}, nil
	}

	details := NormalizePayment(reference, tx)

	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.SideEffectTimeout)
	defer cancel()

	s.recordPaid(sideCtx, details, tx)
	s.notify(sideCtx, details)

	return &types.PaymentVerification{Success: true, Payment: details}, nil
}

// NormalizePayment projects a successful provider transaction into the
// shape returned to clients and rendered in emails.
func NormalizePayment(reference string, tx *paystack.Transaction) *types.PaymentDetails {
	meta := tx.Metadata
	return &types.PaymentDetails{
		Reference: lo.Ternary(tx.Reference == "", reference, tx.Reference),
		Amount:    paystack.FromKobo(tx.Amount),
		Currency:  tx.Currency,
		Status:    tx.Status,
		PaidAt:    tx.PaidAt,
		Customer: types.PaymentCustomer{
			Email: tx.Customer.Email,
			Name:  lo.Ternary(strings.TrimSpace(meta.CustomerName) == "", guestName, meta.CustomerName),
			Phone: meta.CustomerPhone,
		},
		CartItems:       lo.Ternary(meta.CartItems == nil, []types.CartItem{}, meta.CartItems),
		Channel:         tx.Channel,
		TransactionDate: tx.TransactionDate,
	}
}

func (s *Service) recordPaid(ctx context.Context, p *types.PaymentDetails, tx *paystack.Transaction) {
	order := &models.Order{
		Reference:     p.Reference,
		CustomerEmail: p.Customer.Email,
		CustomerName:  p.Customer.Name,
		CustomerPhone: p.Customer.Phone,
		AmountKobo:    tx.Amount,
		Currency:      p.Currency,
		Items:         models.NewJSONB(p.CartItems),
		Metadata:      models.NewJSONB(tx.Metadata),
		Status:        tx.Status,
		Channel:       tx.Channel,
	}
	if paidAt, err := helper.ParseDateTime(tx.PaidAt); err == nil {
		order.PaidAt = &paidAt
	}

	if err := s.rp.Order.Upsert(ctx, order); err != nil {
		logger.Warning.Printf("failed to record paid order %s: %v", p.Reference, err)
	}
}

func (s *Service) notify(ctx context.Context, p *types.PaymentDetails) {
	claimed, err := s.rp.Notification.Claim(ctx, p.Reference)
	if err != nil {
		// a duplicate email is better than none
		logger.Warning.Printf("notification claim for %s failed, sending anyway: %v", p.Reference, err)
		claimed = true
	}
	if !claimed {
		logger.Info.Printf("Confirmation for %s already sent, skipping", p.Reference)
		return
	}

	msg, err := s.composer.OrderConfirmation(p)
	if err == nil {
		err = s.notifier.Send(ctx, msg)
	}
	if err != nil {
		logger.Error.Println(apperr.Notification("failed to send confirmation email for "+p.Reference, err))
		if err := s.rp.Notification.Release(ctx, p.Reference); err != nil {
			logger.Warning.Printf("failed to release notification claim for %s: %v", p.Reference, err)
		}
		return
	}

	// a ledger-backed guard has already stamped the order
	if _, err := s.rp.Order.MarkNotified(ctx, p.Reference, s.now().UTC()); err != nil && apperr.Kind(err) != apperr.KindNotFound {
		logger.Warning.Printf("failed to stamp notified_at for %s: %v", p.Reference, err)
	}

	s.archiveReceipt(ctx, p.Reference, msg.HTML)

	if s.cfg.AdminEmail == "" {
		return
	}
	admin, err := s.composer.AdminOrder(s.cfg.AdminEmail, p)
	if err == nil {
		err = s.notifier.Send(ctx, admin)
	}
	if err != nil {
		logger.Error.Println(apperr.Notification("failed to send admin order email for "+p.Reference, err))
	}
}
