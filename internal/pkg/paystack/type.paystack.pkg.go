package paystack

import (
	"bytes"
	"encoding/json"
	"fmt"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/logger"
)

// Error is returned when Paystack answers with status=false or a body that
// cannot be read.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("paystack: %s (http %d)", e.Message, e.StatusCode)
}

type InitializeRequest struct {
	Email       string    `json:"email"`
	Amount      int64     `json:"amount"`
	Reference   string    `json:"reference"`
	Metadata    *Metadata `json:"metadata,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Channels    []string  `json:"channels,omitempty"`
	CallbackURL string    `json:"callback_url,omitempty"`
}

type InitializeResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

// Transaction is the provider's view of a reference. Only the fields this
// service reads are declared.
type Transaction struct {
	Status          string   `json:"status"`
	Reference       string   `json:"reference"`
	Amount          int64    `json:"amount"`
	Currency        string   `json:"currency"`
	PaidAt          string   `json:"paid_at"`
	TransactionDate string   `json:"transaction_date"`
	Channel         string   `json:"channel"`
	GatewayResponse string   `json:"gateway_response"`
	Customer        Customer `json:"customer"`
	Metadata        Metadata `json:"metadata"`
}

type Customer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Metadata is the envelope attached at initialization and echoed back on
// verification.
type Metadata struct {
	CartItems     []types.CartItem `json:"cartItems"`
	CustomerName  string           `json:"customerName"`
	CustomerPhone string           `json:"customerPhone"`
	PaymentDate   string           `json:"paymentDate,omitempty"`
}

// UnmarshalJSON accepts the metadata as an object, as a JSON-encoded string
// (Paystack echoes string metadata verbatim), or as an empty value.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) || bytes.Equal(b, []byte("0")) {
		*m = Metadata{}
		return nil
	}

	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		if raw == "" {
			*m = Metadata{}
			return nil
		}
		b = []byte(raw)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &fields); err != nil {
		logger.Warning.Printf("paystack: ignoring unreadable metadata: %v", err)
		*m = Metadata{}
		return nil
	}

	// fields are decoded one by one so a bad cart line keeps the customer
	var out Metadata
	decodeField(fields, "customerName", &out.CustomerName)
	decodeField(fields, "customerPhone", &out.CustomerPhone)
	decodeField(fields, "paymentDate", &out.PaymentDate)

	var items []json.RawMessage
	if decodeField(fields, "cartItems", &items) {
		out.CartItems = make([]types.CartItem, 0, len(items))
		for i, raw := range items {
			var item types.CartItem
			if err := json.Unmarshal(raw, &item); err != nil {
				logger.Warning.Printf("paystack: skipping unreadable cart item %d: %v", i, err)
				continue
			}
			out.CartItems = append(out.CartItems, item)
		}
	}

	*m = out
	return nil
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Warning.Printf("paystack: ignoring unreadable metadata field %s: %v", key, err)
		return false
	}
	return true
}
