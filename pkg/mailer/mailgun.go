package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const defaultSendTimeout = 10 * time.Second

// Mailgun sends rendered email jobs through the Mailgun HTTP API.
type Mailgun struct {
	Domain  string
	APIKey  string
	Sender  string
	APIBase string // optional, e.g. the EU region endpoint
	Timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender, Timeout: defaultSendTimeout}
}

// Send delivers one message. html is optional; text is the fallback body.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if to == "" {
		return errors.New("mailgun: empty recipient")
	}
	client := mg.NewMailgun(m.Domain, m.APIKey)
	if m.APIBase != "" {
		client.SetAPIBase(m.APIBase)
	}
	msg := client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}
