// Package mailer delivers contact messages through a transactional email
// provider.
package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Message is one send request. ServiceID, TemplateID and PublicKey identify
// the provider-side account and template; Params fills the template.
type Message struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	Params     map[string]string
}

// Sender performs a single delivery attempt.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

const (
	ProviderEmailJS = "emailjs"
	ProviderSMTP    = "smtp"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	EmailJSEndpoint   string
	EmailJSPrivateKey string
	Timeout           time.Duration
	HTTPClient        *http.Client

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	ToEmail  string
}

// New builds the configured provider.
func New(cfg Config) (Sender, error) {
	switch cfg.Provider {
	case "", ProviderEmailJS:
		return NewEmailJS(cfg.EmailJSEndpoint, cfg.EmailJSPrivateKey, pickHTTPClient(cfg.HTTPClient, cfg.Timeout)), nil
	case ProviderSMTP:
		if cfg.SMTPUser == "" || cfg.SMTPPass == "" {
			return nil, fmt.Errorf("SMTP credentials not configured")
		}
		if cfg.ToEmail == "" {
			return nil, fmt.Errorf("TO_EMAIL not configured")
		}
		return &SMTP{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			To:   cfg.ToEmail,
		}, nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// pickHTTPClient returns custom when set. Otherwise the client only gets a
// timeout when one is configured; by default the provider's own latency
// applies.
func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: timeout}
}
