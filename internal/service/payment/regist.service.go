package payment

import (
	"context"
	"readafrik-checkout/internal/common/models"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/mailer"
	"readafrik-checkout/internal/pkg/paystack"
	s3aws "readafrik-checkout/internal/pkg/storage/s3"
	"readafrik-checkout/internal/repository"
	"readafrik-checkout/internal/service/notification"
	"time"
)

type Config struct {
	AppBaseURL string
	Currency   string
	AdminEmail string
	// SideEffectTimeout bounds email and archive work after the provider
	// answered. It is detached from the request so a closed tab does not
	// cancel the confirmation email.
	SideEffectTimeout time.Duration
}

type Service struct {
	rp       repository.IRepository
	paystack paystack.IClient
	notifier mailer.Notifier
	composer notification.IComposer
	receipts s3aws.Is3
	cfg      *Config
	now      func() time.Time
}

type IService interface {
	InitializePayment(ctx context.Context, req *InitializePaymentRequest) *types.Response
	VerifyPayment(ctx context.Context, reference string) *types.Response
	Verify(ctx context.Context, reference string) (*types.PaymentVerification, error)
	ListOrders(ctx context.Context, req *ListOrdersRequest) *types.Response
	GetOrder(ctx context.Context, reference string) *types.Response
}

// NewService wires the payment flow. receipts may be nil to disable the
// receipt archive.
func NewService(rp repository.IRepository, client paystack.IClient, notifier mailer.Notifier, composer notification.IComposer, receipts s3aws.Is3, cfg *Config) IService {
	if cfg.Currency == "" {
		cfg.Currency = "NGN"
	}
	if cfg.SideEffectTimeout <= 0 {
		cfg.SideEffectTimeout = 30 * time.Second
	}
	return &Service{
		rp:       rp,
		paystack: client,
		notifier: notifier,
		composer: composer,
		receipts: receipts,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Request/Response DTOs

type InitializePaymentRequest struct {
	Email         string           `json:"email" validate:"required,looseemail"`
	Amount        *float64         `json:"amount" validate:"required,gt=0"`
	CartItems     []types.CartItem `json:"cartItems"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
}

type InitializePaymentResponse struct {
	Success          bool   `json:"success"`
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
	PublicKey        string `json:"publicKey,omitempty"`
}

type ListOrdersRequest struct {
	Status    string `form:"status"`
	Limit     int    `form:"limit"`
	Direction string `form:"direction"`
}

type OrderResponse struct {
	models.Order
	Amount     float64 `json:"amount"`
	ReceiptURL string  `json:"receipt_url,omitempty"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Count  int             `json:"count"`
}
