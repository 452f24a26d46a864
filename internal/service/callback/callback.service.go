package callback

import (
	"context"
	"fmt"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/logger"
	"strings"
)

// Verifier confirms a payment reference with the provider.
type Verifier interface {
	Verify(ctx context.Context, reference string) (*types.PaymentVerification, error)
}

type IService interface {
	Resolve(ctx context.Context, reference string) *View
}

type Service struct {
	verifier Verifier
}

func NewService(verifier Verifier) IService {
	return &Service{verifier: verifier}
}

// View is the callback page model.
type View struct {
	State     State
	Message   string
	Reference string
	Amount    string
	Channel   string
	PaidAt    string
	Email     string
	Items     []ItemView
}

type ItemView struct {
	Title     string
	Quantity  int
	LineTotal string
}

func (v *View) IsSuccess() bool { return v.State == Success }

// Resolve runs one verification attempt for reference and returns the
// terminal page state. Reloading the page calls it again.
func (s *Service) Resolve(ctx context.Context, reference string) *View {
	m := NewMachine()

	reference = strings.TrimSpace(reference)
	if reference == "" {
		m.Apply(Outcome{MissingReference: true})
		return render(m)
	}

	result, err := s.verifier.Verify(ctx, reference)
	if err != nil {
		logger.Warning.Printf("callback verification for %s failed: %v", reference, err)
	}
	m.Apply(Outcome{Result: result, Err: err})

	return render(m)
}

func render(m *Machine) *View {
	v := &View{State: m.State(), Message: m.Message()}

	p := m.Payment()
	if p == nil {
		return v
	}

	v.Reference = p.Reference
	v.Amount = money(p.Currency, p.Amount)
	v.Channel = helper.HumanizeChannel(p.Channel)
	v.PaidAt = helper.FormatDate(p.PaidAt)
	v.Email = p.Customer.Email
	v.Items = make([]ItemView, 0, len(p.CartItems))
	for _, item := range p.CartItems {
		v.Items = append(v.Items, ItemView{
			Title:     item.Title,
			Quantity:  item.Quantity,
			LineTotal: money(p.Currency, item.LineTotal()),
		})
	}
	return v
}

func money(currency string, amount float64) string {
	return strings.TrimSpace(fmt.Sprintf("%s %.2f", currency, amount))
}
