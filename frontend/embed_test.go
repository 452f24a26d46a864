package frontend

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesParse(t *testing.T) {
	t.Parallel()

	tmpl, err := Templates()
	require.NoError(t, err)
	assert.NotNil(t, tmpl.Lookup("callback.html"))
}

type page struct {
	Success bool
	Message string
}

func (p page) IsSuccess() bool { return p.Success }

func TestCallbackFailedPageEscapesMessage(t *testing.T) {
	t.Parallel()

	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "callback.html", page{Message: "<b>declined</b>"}))

	out := buf.String()
	assert.Contains(t, out, "Payment Failed")
	assert.Contains(t, out, "&lt;b&gt;declined&lt;/b&gt;")
	assert.Contains(t, out, "Try Again")
}

type item struct {
	Title     string
	Quantity  int
	LineTotal string
}

type paidPage struct {
	Reference, Amount, Channel, PaidAt, Email string
	Items                                     []item
}

func (paidPage) IsSuccess() bool { return true }

func TestCallbackSuccessPageDoesNotClaimEmailWasSent(t *testing.T) {
	t.Parallel()

	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "callback.html", paidPage{
		Reference: "READAFRIK-1-000001",
		Amount:    "NGN 15.00",
		Email:     "ada@example.com",
		Items:     []item{{Title: "Book A", Quantity: 1, LineTotal: "NGN 15.00"}},
	}))

	out := buf.String()
	assert.Contains(t, out, "Payment Successful!")
	assert.Contains(t, out, "Book A")
	assert.Contains(t, out, "ada@example.com")
	assert.NotContains(t, out, "has been sent")
}
