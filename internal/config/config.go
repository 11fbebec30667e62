// Package config reads the server settings from the environment. A .env
// file, when present, is loaded by godotenv before Load runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redterminal/portfolio/internal/contact"
	"github.com/redterminal/portfolio/internal/mailer"
	"github.com/redterminal/portfolio/internal/pages"
)

type Config struct {
	Port string

	Mail       mailer.Config
	ServiceID  string
	TemplateID string
	PublicKey  string
	ResetDelay time.Duration

	PageTTL       time.Duration
	PageLimit     int
	SweepSchedule string

	ContentFile  string
	ContentWatch bool
	TemplateDir  string
}

// Load builds a Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port: getenv("PORT", "8080"),
		Mail: mailer.Config{
			Provider:          getenv("MAIL_PROVIDER", mailer.ProviderEmailJS),
			EmailJSEndpoint:   getenv("EMAILJS_ENDPOINT", mailer.DefaultEmailJSEndpoint),
			EmailJSPrivateKey: os.Getenv("EMAILJS_PRIVATE_KEY"),
			SMTPHost:          getenv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:          getenv("SMTP_PORT", "587"),
			SMTPUser:          os.Getenv("SMTP_USER"),
			SMTPPass:          os.Getenv("SMTP_PASS"),
			ToEmail:           os.Getenv("TO_EMAIL"),
		},
		ServiceID:     os.Getenv("EMAILJS_SERVICE_ID"),
		TemplateID:    os.Getenv("EMAILJS_TEMPLATE_ID"),
		PublicKey:     os.Getenv("EMAILJS_PUBLIC_KEY"),
		SweepSchedule: getenv("SWEEP_SCHEDULE", "@every 1m"),
		ContentFile:   os.Getenv("CONTENT_FILE"),
		TemplateDir:   getenv("TEMPLATE_DIR", "templates"),
	}

	var err error
	if cfg.Mail.Timeout, err = duration("EMAILJS_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.ResetDelay, err = duration("STATUS_RESET_DELAY", contact.DefaultResetDelay); err != nil {
		return nil, err
	}
	if cfg.ResetDelay == 0 {
		cfg.ResetDelay = contact.DefaultResetDelay
	}
	if cfg.PageTTL, err = duration("PAGE_TTL", pages.DefaultTTL); err != nil {
		return nil, err
	}
	if cfg.PageLimit, err = positive("PAGE_LIMIT", pages.DefaultLimit); err != nil {
		return nil, err
	}
	if cfg.ContentWatch, err = boolean("CONTENT_WATCH", cfg.ContentFile != ""); err != nil {
		return nil, err
	}

	if cfg.Mail.Provider == mailer.ProviderEmailJS {
		if cfg.ServiceID == "" || cfg.TemplateID == "" || cfg.PublicKey == "" {
			return nil, fmt.Errorf("EmailJS not configured: set EMAILJS_SERVICE_ID, EMAILJS_TEMPLATE_ID and EMAILJS_PUBLIC_KEY")
		}
	}
	return cfg, nil
}

// ContactConfig is the per-page controller configuration.
func (c *Config) ContactConfig() contact.Config {
	return contact.Config{
		ServiceID:  c.ServiceID,
		TemplateID: c.TemplateID,
		PublicKey:  c.PublicKey,
		ResetDelay: c.ResetDelay,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

func boolean(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func positive(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return n, nil
}
