package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTP relays contact messages through an SMTP server with plain auth.
// Service and template ids are not used by this provider.
type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	// sendMail defaults to smtp.SendMail.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	send := s.sendMail
	if send == nil {
		send = smtp.SendMail
	}
	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	if err := send(s.Host+":"+s.Port, auth, s.User, []string{s.To}, s.compose(msg.Params)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTP) compose(p map[string]string) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", oneLine(p["title"]))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, oneLine(p["name"]), oneLine(p["email"]), oneLine(p["title"]), p["message"])

	return []byte("To: " + s.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + s.User + "\r\n" +
		"Reply-To: " + oneLine(p["email"]) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// oneLine strips CR/LF so visitor input cannot inject headers.
func oneLine(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
