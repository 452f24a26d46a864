package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type CartItem struct {
	ID       ItemID  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// LineTotal is price × quantity in the major currency unit.
func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// ItemID holds product ids that the storefront sends either as numbers or
// strings. Numeric ids are written back as numbers.
type ItemID string

func (id *ItemID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("item id must be a number or string: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseFloat(string(id), 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type PaymentCustomer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PaymentDetails is the normalized view of a successful payment shared by
// the verify endpoint, the callback page and the confirmation emails.
type PaymentDetails struct {
	Reference       string          `json:"reference"`
	Amount          float64         `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	PaidAt          string          `json:"paidAt"`
	Customer        PaymentCustomer `json:"customer"`
	CartItems       []CartItem      `json:"cartItems"`
	Channel         string          `json:"channel"`
	TransactionDate string          `json:"transactionDate"`
}

// PaymentVerification is the verify endpoint's body. A non-success provider
// status yields Success=false with Status and Message set.
type PaymentVerification struct {
	Success bool            `json:"success"`
	Payment *PaymentDetails `json:"payment,omitempty"`
	Status  string          `json:"status,omitempty"`
	Message string          `json:"message,omitempty"`
}
