package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com"

// ProviderError is a non-2xx answer from the provider.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("emailjs API error: %d (%s)", e.StatusCode, e.Body)
}

// EmailJS sends through the EmailJS REST API.
type EmailJS struct {
	base       string
	privateKey string
	client     *http.Client
}

// NewEmailJS returns a client for base (DefaultEmailJSEndpoint when empty).
// privateKey is optional and sent as the access token.
func NewEmailJS(base, privateKey string, client *http.Client) *EmailJS {
	if base == "" {
		base = DefaultEmailJSEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &EmailJS{
		base:       strings.TrimRight(base, "/"),
		privateKey: privateKey,
		client:     client,
	}
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
	AccessToken    string            `json:"accessToken,omitempty"`
}

func (c *EmailJS) Send(ctx context.Context, msg Message) error {
	buf, err := json.Marshal(emailJSRequest{
		ServiceID:      msg.ServiceID,
		TemplateID:     msg.TemplateID,
		UserID:         msg.PublicKey,
		TemplateParams: msg.Params,
		AccessToken:    c.privateKey,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/v1.0/email/send", c.base)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ProviderError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}
