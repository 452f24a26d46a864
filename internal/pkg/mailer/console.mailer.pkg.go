package mailer

import (
	"context"
	"readafrik-checkout/internal/pkg/logger"
)

// Console writes emails to the info log instead of sending them.
type Console struct{}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Send(_ context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	logger.Info.Printf("Email would be sent to=%s subject=%q", msg.To, msg.Subject)
	logger.Debug.Printf("HTML: %s", msg.HTML)
	if msg.Text != "" {
		logger.Debug.Printf("Text: %s", msg.Text)
	}
	return nil
}
