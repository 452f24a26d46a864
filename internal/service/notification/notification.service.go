package notification

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	types "readafrik-checkout/internal/common/type"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/mailer"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates
var templateFS embed.FS

type IComposer interface {
	OrderConfirmation(p *types.PaymentDetails) (*mailer.Message, error)
	AdminOrder(to string, p *types.PaymentDetails) (*mailer.Message, error)
	Subscription(email string) (*mailer.Message, error)
	AdminSubscription(to, email string, at time.Time) (*mailer.Message, error)
	EventRegistration(e *Event) (*mailer.Message, error)
	AdminEventRegistration(to string, e *Event) (*mailer.Message, error)
}

// Composer renders the transactional emails from the embedded templates.
type Composer struct {
	baseURL string
	html    *template.Template
	text    *texttemplate.Template
}

// Event is an event registration as shown in emails. EventDate is expected
// to be already formatted for display.
type Event struct {
	Name          string
	Email         string
	Phone         string
	EventTitle    string
	EventDate     string
	EventTime     string
	EventLocation string
	EventPrice    string
}

type orderView struct {
	BaseURL      string
	Name         string
	Email        string
	Phone        string
	Reference    string
	PaidDate     string
	PaidDateTime string
	Channel      string
	Total        string
	Items        []itemLine
}

type itemLine struct {
	Title     string
	Quantity  int
	LineTotal string
}

type subscriptionView struct {
	BaseURL string
	Email   string
	Date    string
}

type eventView struct {
	*Event
	BaseURL string
}

func NewComposer(baseURL string) (*Composer, error) {
	html, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email html templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email text templates: %w", err)
	}
	return &Composer{
		baseURL: strings.TrimRight(baseURL, "/"),
		html:    html,
		text:    text,
	}, nil
}

func (c *Composer) OrderConfirmation(p *types.PaymentDetails) (*mailer.Message, error) {
	return c.render(p.Customer.Email, "Order Confirmation - "+p.Reference, "order", c.orderView(p))
}

func (c *Composer) AdminOrder(to string, p *types.PaymentDetails) (*mailer.Message, error) {
	return c.render(to, "New Order: "+p.Reference, "admin_order", c.orderView(p))
}

func (c *Composer) Subscription(email string) (*mailer.Message, error) {
	return c.render(email, "Welcome to ReadAfrik Event Updates!", "subscription", subscriptionView{
		BaseURL: c.baseURL,
		Email:   email,
	})
}

func (c *Composer) AdminSubscription(to, email string, at time.Time) (*mailer.Message, error) {
	return c.render(to, "New Newsletter Subscription", "admin_subscription", subscriptionView{
		BaseURL: c.baseURL,
		Email:   email,
		Date:    at.UTC().Format("Jan 2, 2006 15:04 MST"),
	})
}

func (c *Composer) EventRegistration(e *Event) (*mailer.Message, error) {
	return c.render(e.Email, "Registration Confirmed: "+e.EventTitle, "event", eventView{Event: e, BaseURL: c.baseURL})
}

func (c *Composer) AdminEventRegistration(to string, e *Event) (*mailer.Message, error) {
	return c.render(to, "New Event Registration: "+e.EventTitle, "admin_event", eventView{Event: e, BaseURL: c.baseURL})
}

func (c *Composer) orderView(p *types.PaymentDetails) orderView {
	items := make([]itemLine, 0, len(p.CartItems))
	for _, item := range p.CartItems {
		items = append(items, itemLine{
			Title:     item.Title,
			Quantity:  item.Quantity,
			LineTotal: Money(p.Currency, item.LineTotal()),
		})
	}

	return orderView{
		BaseURL:      c.baseURL,
		Name:         p.Customer.Name,
		Email:        p.Customer.Email,
		Phone:        p.Customer.Phone,
		Reference:    p.Reference,
		PaidDate:     helper.FormatDate(p.PaidAt),
		PaidDateTime: helper.FormatDateTime(p.PaidAt),
		Channel:      helper.HumanizeChannel(p.Channel),
		Total:        Total(p.Currency, p.Amount),
		Items:        items,
	}
}

func (c *Composer) render(to, subject, name string, data any) (*mailer.Message, error) {
	var html, text bytes.Buffer
	if err := c.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return nil, fmt.Errorf("failed to render %s.html: %w", name, err)
	}
	if err := c.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return nil, fmt.Errorf("failed to render %s.txt: %w", name, err)
	}
	return &mailer.Message{
		To:      to,
		Subject: subject,
		HTML:    html.String(),
		Text:    strings.TrimSpace(text.String()),
	}, nil
}

// Total renders an order total with the currency symbol and digit grouping,
// e.g. ₦1,500.00. Unsupported currencies fall back to Money.
func Total(currency string, amount float64) string {
	if _, ok := helper.SupportedCurrencies[strings.ToUpper(currency)]; ok {
		return helper.FormatCurrency(amount, currency)
	}
	return Money(currency, amount)
}

// Money renders "NGN 20.00": the currency code, a space and two decimals.
// Line totals use it.
func Money(currency string, amount float64) string {
	if currency == "" {
		return helper.FormatAmount(amount)
	}
	return currency + " " + helper.FormatAmount(amount)
}
