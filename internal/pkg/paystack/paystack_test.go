package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	types "readafrik-checkout/internal/common/type"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransactionSendsBearerAndBody(t *testing.T) {
	t.Parallel()

	var got InitializeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"READAFRIK-1-000001"}}`))
	}))
	defer srv.Close()

	c := Setup(&Config{SecretKey: "sk_test_123", BaseURL: srv.URL + "/", Timeout: time.Second})
	resp, err := c.InitializeTransaction(context.Background(), &InitializeRequest{
		Email:     "ada@example.com",
		Amount:    1500,
		Reference: "READAFRIK-1-000001",
		Metadata:  &Metadata{CustomerName: "Guest", CartItems: []types.CartItem{}},
		Currency:  "NGN",
		Channels:  DefaultChannels,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", resp.Data.AuthorizationURL)
	assert.Equal(t, "abc", resp.Data.AccessCode)
	assert.Equal(t, int64(1500), got.Amount)
	assert.Equal(t, []string{"card", "bank", "ussd", "mobile_money"}, got.Channels)
	assert.Equal(t, "Guest", got.Metadata.CustomerName)
}

func TestInitializeTransactionStatusFalse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	c := Setup(&Config{SecretKey: "bad", BaseURL: srv.URL})
	_, err := c.InitializeTransaction(context.Background(), &InitializeRequest{Email: "a@b.co", Amount: 100})

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Invalid key", perr.Message)
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
}

func TestVerifyTransactionDecodesStringMetadata(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/READAFRIK-1-123456", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":true,"message":"Verification successful","data":{
			"status":"success","reference":"READAFRIK-1-123456","amount":2000,"currency":"NGN",
			"paid_at":"2025-01-02T10:00:00.000Z","transaction_date":"2025-01-02T09:59:00.000Z","channel":"card",
			"customer":{"email":"ada@example.com","phone":null},
			"metadata":"{\"cartItems\":[{\"id\":1,\"title\":\"Book A\",\"price\":10,\"quantity\":2}],\"customerName\":\"Ada\"}"}}`))
	}))
	defer srv.Close()

	c := Setup(&Config{SecretKey: "sk", BaseURL: srv.URL})
	resp, err := c.VerifyTransaction(context.Background(), "READAFRIK-1-123456")

	require.NoError(t, err)
	assert.Equal(t, "success", resp.Data.Status)
	assert.Equal(t, int64(2000), resp.Data.Amount)
	require.Len(t, resp.Data.Metadata.CartItems, 1)
	assert.Equal(t, types.ItemID("1"), resp.Data.Metadata.CartItems[0].ID)
	assert.Equal(t, "Ada", resp.Data.Metadata.CustomerName)
	assert.InDelta(t, 20.0, resp.Data.Metadata.CartItems[0].LineTotal(), 0.0001)
}

func TestVerifyTransactionUnreadableBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	c := Setup(&Config{SecretKey: "sk", BaseURL: srv.URL})
	_, err := c.VerifyTransaction(context.Background(), "ref")

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadGateway, perr.StatusCode)
}

func TestConfigured(t *testing.T) {
	t.Parallel()

	assert.False(t, Setup(&Config{}).Configured())
	assert.True(t, Setup(&Config{SecretKey: "sk"}).Configured())
	assert.Equal(t, DefaultBaseURL, Setup(&Config{}).baseURL)
}

func TestMetadataVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		raw   string
		items int
		who   string
	}{
		{"object", `{"cartItems":[{"id":"sku-1","title":"T","price":1,"quantity":1}],"customerName":"Ada"}`, 1, "Ada"},
		{"encoded string", `"{\"customerName\":\"Bola\"}"`, 0, "Bola"},
		{"empty string", `""`, 0, ""},
		{"null", `null`, 0, ""},
		{"garbage string", `"not json"`, 0, ""},
		{"bad cart line", `"{\"customerName\":\"Chidi\",\"cartItems\":[{\"id\":1,\"title\":\"A\",\"price\":\"ten\",\"quantity\":1},{\"id\":2,\"title\":\"B\",\"price\":5,\"quantity\":2}]}"`, 1, "Chidi"},
		{"cart not a list", `{"customerName":"Dayo","cartItems":"none"}`, 0, "Dayo"},
		{"bad name keeps cart", `{"customerName":42,"cartItems":[{"id":1,"title":"A","price":1,"quantity":1}]}`, 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m Metadata
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &m))
			assert.Len(t, m.CartItems, tt.items)
			assert.Equal(t, tt.who, m.CustomerName)
		})
	}
}

func TestGenerateReference(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^READAFRIK-\d{13}-\d{6}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		ref := GenerateReference()
		assert.Regexp(t, pattern, ref)
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestKoboRoundTrip(t *testing.T) {
	t.Parallel()

	for i := int64(0); i <= 1_000_000; i += 7 {
		amount := float64(i) / 100
		kobo := ToKobo(amount)
		require.Equal(t, i, kobo, "amount %v", amount)
		require.Equal(t, amount, FromKobo(kobo))
	}

	assert.Equal(t, int64(1500), ToKobo(15))
	assert.Equal(t, int64(29), ToKobo(0.29))
	assert.Equal(t, int64(101), ToKobo(1.005))
	assert.Equal(t, 20.0, FromKobo(2000))
}
