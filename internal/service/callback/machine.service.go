package callback

import (
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/apperr"
)

type State string

const (
	Loading State = "loading"
	Success State = "success"
	Failed  State = "failed"
)

const (
	MsgNoReference   = "No payment reference found"
	MsgVerifyFailed  = "Payment verification failed"
	MsgVerifyErrored = "An error occurred while verifying your payment"
)

// Outcome is what the page learned about a payment. Exactly one of
// MissingReference, Err or Result is meaningful.
type Outcome struct {
	MissingReference bool
	Result           *types.PaymentVerification
	Err              error
}

// Machine tracks the callback page from Loading to one terminal state.
// Outcomes applied after a terminal state are ignored.
type Machine struct {
	state   State
	payment *types.PaymentDetails
	message string
}

func NewMachine() *Machine {
	return &Machine{state: Loading}
}

func (m *Machine) State() State                   { return m.state }
func (m *Machine) Payment() *types.PaymentDetails { return m.payment }
func (m *Machine) Message() string                { return m.message }

func (m *Machine) Terminal() bool {
	return m.state != Loading
}

func (m *Machine) Apply(o Outcome) State {
	if m.Terminal() {
		return m.state
	}

	switch {
	case o.MissingReference:
		m.fail(MsgNoReference)
	case o.Err != nil:
		m.fail(apperr.PublicMessage(o.Err, MsgVerifyErrored))
	case o.Result == nil:
		m.fail(MsgVerifyErrored)
	case o.Result.Success && o.Result.Payment != nil:
		m.state = Success
		m.payment = o.Result.Payment
	default:
		m.fail(o.Result.Message)
	}
	return m.state
}

func (m *Machine) fail(message string) {
	if message == "" {
		message = MsgVerifyFailed
	}
	m.state = Failed
	m.message = message
}
