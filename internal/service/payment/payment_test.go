package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/mailer"
	"readafrik-checkout/internal/pkg/paystack"
	"readafrik-checkout/internal/repository"
	engagementRepo "readafrik-checkout/internal/repository/engagement"
	notificationRepo "readafrik-checkout/internal/repository/notification"
	orderRepo "readafrik-checkout/internal/repository/order"
	"readafrik-checkout/internal/service/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successTx = `{"status":true,"message":"Verification successful","data":{
	"status":"success","reference":"READAFRIK-1-000001","amount":2000,"currency":"NGN",
	"paid_at":"2025-01-02T03:04:05.000Z","transaction_date":"2025-01-02T03:03:00.000Z","channel":"card",
	"customer":{"email":"ada@example.com"},
	"metadata":{"cartItems":[{"id":1,"title":"Book A","price":10,"quantity":2}],"customerName":"Ada","customerPhone":""}}}`

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*mailer.Message
	fail atomic.Int32
}

func (n *recordingNotifier) Send(_ context.Context, msg *mailer.Message) error {
	if n.fail.Load() > 0 {
		n.fail.Add(-1)
		return errors.New("smtp: connection refused")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) to(addr string) []*mailer.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []*mailer.Message
	for _, m := range n.sent {
		if m.To == addr {
			out = append(out, m)
		}
	}
	return out
}

type fakeReceipts struct {
	mu       sync.Mutex
	uploaded map[string][]byte
}

func (f *fakeReceipts) GetBucketName() string { return "receipts-test" }

func (f *fakeReceipts) UploadFile(_ context.Context, key string, body []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploaded == nil {
		f.uploaded = make(map[string][]byte)
	}
	f.uploaded[key] = body
	return nil
}

func (f *fakeReceipts) GetPresignedURL(_ context.Context, key string) (string, error) {
	return "https://s3.test/" + key + "?signed", nil
}

type fixture struct {
	svc      *Service
	orders   *orderRepo.MemoryRepository
	notifier *recordingNotifier
	receipts *fakeReceipts
	calls    *atomic.Int32
	lastInit *paystack.InitializeRequest
}

func newFixture(t *testing.T, guard notificationRepo.IGuard, handler http.HandlerFunc) *fixture {
	t.Helper()

	f := &fixture{
		orders:   orderRepo.NewMemoryRepo(),
		notifier: &recordingNotifier{},
		receipts: &fakeReceipts{},
		calls:    &atomic.Int32{},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	composer, err := notification.NewComposer("https://readafrik.test")
	require.NoError(t, err)

	f.svc = NewService(
		repository.IRepository{
			Order:        f.orders,
			Engagement:   engagementRepo.NewMemoryRepo(),
			Notification: guard,
		},
		paystack.Setup(&paystack.Config{SecretKey: "sk_test", PublicKey: "pk_test", BaseURL: srv.URL, Timeout: 5 * time.Second}),
		f.notifier,
		composer,
		f.receipts,
		&Config{AppBaseURL: "https://readafrik.test/", AdminEmail: "admin@readafrik.test"},
	).(*Service)
	return f
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func amount(v float64) *float64 { return &v }

func TestInitializePaymentRejectsBadIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     InitializePaymentRequest
		message string
	}{
		{"missing email", InitializePaymentRequest{Amount: amount(15)}, "Email and amount are required"},
		{"missing amount", InitializePaymentRequest{Email: "ada@example.com"}, "Email and amount are required"},
		{"malformed email", InitializePaymentRequest{Email: "not-an-email", Amount: amount(15)}, "Invalid email format"},
		{"email with space", InitializePaymentRequest{Email: "ada @example.com", Amount: amount(15)}, "Invalid email format"},
		{"zero amount", InitializePaymentRequest{Email: "ada@example.com", Amount: amount(0)}, "Amount must be greater than zero"},
		{"negative amount", InitializePaymentRequest{Email: "ada@example.com", Amount: amount(-5)}, "Amount must be greater than zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(`{"status":true,"data":{}}`))

			res := f.svc.InitializePayment(context.Background(), &tt.req)

			assert.Equal(t, http.StatusBadRequest, res.Code)
			assert.Equal(t, tt.message, res.Message)
			assert.Zero(t, f.calls.Load(), "provider must not be called")

			orders, err := f.orders.List(context.Background(), orderRepo.ListFilter{})
			require.NoError(t, err)
			assert.Empty(t, orders, "no reference should be issued")
		})
	}
}

func TestInitializePaymentNotConfigured(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(`{}`))
	f.svc.paystack = paystack.Setup(&paystack.Config{})

	res := f.svc.InitializePayment(context.Background(), &InitializePaymentRequest{Email: "ada@example.com", Amount: amount(15)})

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "Payment system configuration error", res.Message)
}

func TestInitializePaymentSuccess(t *testing.T) {
	t.Parallel()

	var got paystack.InitializeRequest
	f := newFixture(t, notificationRepo.Unguarded{}, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":true,"message":"ok","data":{"authorization_url":"https://checkout.paystack.com/xyz","access_code":"xyz","reference":"r"}}`))
	})

	res := f.svc.InitializePayment(context.Background(), &InitializePaymentRequest{
		Email:  "ada@example.com",
		Amount: amount(15),
	})

	require.Equal(t, http.StatusOK, res.Code)
	body, ok := res.Data.(InitializePaymentResponse)
	require.True(t, ok)
	assert.True(t, body.Success)
	assert.Regexp(t, `^READAFRIK-\d{13}-\d{6}$`, body.Reference)
	assert.Equal(t, "https://checkout.paystack.com/xyz", body.AuthorizationURL)
	assert.Equal(t, "xyz", body.AccessCode)
	assert.Equal(t, "pk_test", body.PublicKey)

	assert.Equal(t, int64(1500), got.Amount)
	assert.Equal(t, body.Reference, got.Reference)
	assert.Equal(t, "NGN", got.Currency)
	assert.Equal(t, "https://readafrik.test/payment/callback", got.CallbackURL)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, "Guest", got.Metadata.CustomerName)
	assert.Empty(t, got.Metadata.CartItems)
	assert.NotEmpty(t, got.Metadata.PaymentDate)

	order, err := f.orders.FindByReference(context.Background(), body.Reference)
	require.NoError(t, err)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, int64(1500), order.AmountKobo)
	assert.Equal(t, "xyz", order.AccessCode)
}

func TestInitializePaymentProviderRejects(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	})

	res := f.svc.InitializePayment(context.Background(), &InitializePaymentRequest{Email: "ada@example.com", Amount: amount(15)})

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Invalid key", res.Message)
}

func TestInitializePaymentProviderGarbage(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	res := f.svc.InitializePayment(context.Background(), &InitializePaymentRequest{Email: "ada@example.com", Amount: amount(15)})

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Payment initialization failed", res.Message)
}

func TestVerifyRequiresReference(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(successTx))

	res := f.svc.VerifyPayment(context.Background(), "  ")

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Payment reference is required", res.Message)
	assert.Zero(t, f.calls.Load())
}

func TestVerifyNonSuccessSendsNoEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(
		`{"status":true,"message":"ok","data":{"status":"abandoned","reference":"READAFRIK-1-000001","amount":1500}}`))

	ctx := context.Background()
	res := f.svc.VerifyPayment(ctx, "READAFRIK-1-000001")

	require.Equal(t, http.StatusOK, res.Code)
	body, ok := res.Data.(*types.PaymentVerification)
	require.True(t, ok)
	assert.False(t, body.Success)
	assert.Equal(t, "abandoned", body.Status)
	assert.Equal(t, "Payment was not successful", body.Message)
	assert.Nil(t, body.Payment)
	assert.Empty(t, f.notifier.sent)
}

func TestVerifyProviderFailure(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":false,"message":"Transaction reference not found"}`))
	})

	res := f.svc.VerifyPayment(context.Background(), "READAFRIK-1-000001")

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Payment verification failed", res.Message)
	assert.Empty(t, f.notifier.sent)
}

func TestVerifySuccessNormalizesAndNotifies(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.NewMemoryGuard(time.Hour), func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/READAFRIK-1-000001", r.URL.Path)
		_, _ = w.Write([]byte(successTx))
	})

	ctx := context.Background()
	result, err := f.svc.Verify(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)

	require.True(t, result.Success)
	p := result.Payment
	require.NotNil(t, p)
	assert.Equal(t, "READAFRIK-1-000001", p.Reference)
	assert.Equal(t, 20.0, p.Amount)
	assert.Equal(t, "Ada", p.Customer.Name)
	assert.Equal(t, "ada@example.com", p.Customer.Email)
	require.Len(t, p.CartItems, 1)
	assert.Equal(t, "Book A", p.CartItems[0].Title)
	assert.Equal(t, 20.0, p.CartItems[0].LineTotal())

	customer := f.notifier.to("ada@example.com")
	require.Len(t, customer, 1)
	assert.Equal(t, "Order Confirmation - READAFRIK-1-000001", customer[0].Subject)
	assert.Contains(t, customer[0].HTML, "20.00")
	assert.Len(t, f.notifier.to("admin@readafrik.test"), 1)

	order, err := f.orders.FindByReference(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	assert.Equal(t, "success", order.Status)
	assert.NotNil(t, order.PaidAt)
	assert.NotNil(t, order.NotifiedAt)

	assert.Contains(t, string(f.receipts.uploaded["receipts/READAFRIK-1-000001.html"]), "Book A")

	res := f.svc.GetOrder(ctx, "READAFRIK-1-000001")
	require.Equal(t, http.StatusOK, res.Code)
	view := res.Data.(OrderResponse)
	assert.Equal(t, 20.0, view.Amount)
	assert.Equal(t, "https://s3.test/receipts/READAFRIK-1-000001.html?signed", view.ReceiptURL)
}

func TestNormalizePaymentDefaults(t *testing.T) {
	t.Parallel()

	p := NormalizePayment("REF-1", &paystack.Transaction{Status: "success", Amount: 1999})

	assert.Equal(t, "REF-1", p.Reference)
	assert.Equal(t, 19.99, p.Amount)
	assert.Equal(t, "Guest", p.Customer.Name)
	assert.Equal(t, "", p.Customer.Phone)
	assert.NotNil(t, p.CartItems)
	assert.Empty(t, p.CartItems)
}

func verifyConcurrently(t *testing.T, f *fixture, n int) {
	t.Helper()
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.svc.Verify(context.Background(), "READAFRIK-1-000001")
			assert.NoError(t, err)
			assert.True(t, result.Success)
		}()
	}
	wg.Wait()
}

func TestConcurrentVerifyWithDedupeNotifiesOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.NewMemoryGuard(time.Hour), jsonHandler(successTx))

	verifyConcurrently(t, f, 2)

	assert.Len(t, f.notifier.to("ada@example.com"), 1)
	assert.Len(t, f.notifier.to("admin@readafrik.test"), 1)
}

func TestConcurrentVerifyWithoutDedupeNotifiesEachTime(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(successTx))

	verifyConcurrently(t, f, 2)

	assert.Len(t, f.notifier.to("ada@example.com"), 2)
}

func TestFailedEmailReleasesClaim(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.NewMemoryGuard(time.Hour), jsonHandler(successTx))
	f.notifier.fail.Store(1)

	ctx := context.Background()
	first, err := f.svc.Verify(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	assert.True(t, first.Success, "email failure must not change the result")
	assert.Empty(t, f.notifier.to("ada@example.com"))

	_, err = f.svc.Verify(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	assert.Len(t, f.notifier.to("ada@example.com"), 1)
}

func TestNotifiedOrderIsNotEmailedAfterGuardReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(successTx))
	f.svc.rp.Notification = notificationRepo.NewLedgerGuard(notificationRepo.NewMemoryGuard(time.Hour), f.orders)

	ctx := context.Background()
	_, err := f.svc.Verify(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	require.Len(t, f.notifier.to("ada@example.com"), 1)

	order, err := f.orders.FindByReference(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	require.NotNil(t, order.NotifiedAt)

	// claim expired or process restarted: only the stored order remembers
	f.svc.rp.Notification = notificationRepo.NewLedgerGuard(notificationRepo.NewMemoryGuard(time.Hour), f.orders)

	result, err := f.svc.Verify(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Len(t, f.notifier.to("ada@example.com"), 1)
	assert.Len(t, f.notifier.to("admin@readafrik.test"), 1)
}

func TestFailedEmailClearsNotifiedStamp(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(successTx))
	f.svc.rp.Notification = notificationRepo.NewLedgerGuard(notificationRepo.NewMemoryGuard(time.Hour), f.orders)
	f.notifier.fail.Store(1)

	ctx := context.Background()
	_, err := f.svc.Verify(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)

	order, err := f.orders.FindByReference(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	assert.Nil(t, order.NotifiedAt)

	_, err = f.svc.Verify(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)
	assert.Len(t, f.notifier.to("ada@example.com"), 1)
}

func TestListOrders(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(successTx))
	ctx := context.Background()

	_, err := f.svc.Verify(ctx, "READAFRIK-1-000001")
	require.NoError(t, err)

	res := f.svc.ListOrders(ctx, &ListOrdersRequest{Status: "SUCCESS"})
	require.Equal(t, http.StatusOK, res.Code)
	list := res.Data.(OrderListResponse)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 20.0, list.Orders[0].Amount)

	res = f.svc.ListOrders(ctx, &ListOrdersRequest{Status: "refunded-ish"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.True(t, strings.HasPrefix(res.Message, "Invalid status"))
}

func TestGetOrderNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t, notificationRepo.Unguarded{}, jsonHandler(successTx))

	res := f.svc.GetOrder(context.Background(), "missing")

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Order not found", res.Message)
}
