// Package contact owns the contact form of one page instance and the
// lifecycle of its submission to the delivery provider.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redterminal/portfolio/internal/mailer"
)

// DefaultResetDelay is how long a success or error banner stays up.
const DefaultResetDelay = 5 * time.Second

var (
	ErrInFlight   = errors.New("contact: submission already in flight")
	ErrIncomplete = errors.New("contact: all fields are required")
)

// Status is the submission status shown by the form.
type Status int

const (
	Idle Status = iota
	Sending
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Success:
		return "success"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Field names a form input.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Form holds the visitor's input.
type Form struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required"`
	Subject string `form:"subject" binding:"required"`
	Message string `form:"message" binding:"required"`
}

// Complete reports whether every field has a non-blank value.
func (f Form) Complete() bool {
	for _, v := range []string{f.Name, f.Email, f.Subject, f.Message} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

// Params maps the form onto the provider template variables. The template
// calls the subject "title".
func (f Form) Params() map[string]string {
	return map[string]string{
		"name":    f.Name,
		"email":   f.Email,
		"title":   f.Subject,
		"message": f.Message,
	}
}

// Scheduler runs fn after d. The returned func cancels it.
type Scheduler func(d time.Duration, fn func()) (cancel func())

// AfterFunc schedules on the real clock.
func AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Config tells the controller where and how to deliver.
type Config struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	ResetDelay time.Duration
	Schedule   Scheduler
}

// Controller is the submission state machine of one form:
// idle → sending → success|error → idle.
type Controller struct {
	sender mailer.Sender
	cfg    Config

	mu     sync.Mutex
	form   Form
	status Status
	gen    uint64
	cancel func()
}

// NewController returns an idle controller with an empty form.
func NewController(sender mailer.Sender, cfg Config) *Controller {
	if cfg.ResetDelay <= 0 {
		cfg.ResetDelay = DefaultResetDelay
	}
	if cfg.Schedule == nil {
		cfg.Schedule = AfterFunc
	}
	return &Controller{sender: sender, cfg: cfg}
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// SetField updates a single input. Unknown fields are ignored. The inputs
// are locked while a submission is in flight.
func (c *Controller) SetField(f Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == Sending {
		return ErrInFlight
	}
	switch f {
	case FieldName:
		c.form.Name = value
	case FieldEmail:
		c.form.Email = value
	case FieldSubject:
		c.form.Subject = value
	case FieldMessage:
		c.form.Message = value
	}
	return nil
}

// SetForm replaces all inputs at once, or returns ErrInFlight while a
// submission is in flight.
func (c *Controller) SetForm(f Form) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == Sending {
		return ErrInFlight
	}
	c.form = f
	return nil
}

// Submit delivers the current form and returns the resulting status. It
// blocks until the provider answers. While a submission is in flight it
// returns ErrInFlight without contacting the provider. A delivery failure is
// reported through the Failed status together with the provider error.
func (c *Controller) Submit(ctx context.Context) (Status, error) {
	return c.submit(ctx, nil)
}

// SubmitForm replaces the inputs with f and submits them in one step, so a
// concurrent caller cannot swap the fields between the two.
func (c *Controller) SubmitForm(ctx context.Context, f Form) (Status, error) {
	return c.submit(ctx, &f)
}

func (c *Controller) submit(ctx context.Context, f *Form) (Status, error) {
	c.mu.Lock()
	if c.status == Sending {
		c.mu.Unlock()
		return Sending, ErrInFlight
	}
	if f != nil {
		c.form = *f
	}
	if !c.form.Complete() {
		st := c.status
		c.mu.Unlock()
		return st, ErrIncomplete
	}
	c.stopRevert()
	c.status = Sending
	c.gen++
	msg := mailer.Message{
		ServiceID:  c.cfg.ServiceID,
		TemplateID: c.cfg.TemplateID,
		PublicKey:  c.cfg.PublicKey,
		Params:     c.form.Params(),
	}
	c.mu.Unlock()

	err := c.sender.Send(context.WithoutCancel(ctx), msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = Failed
		err = fmt.Errorf("contact: delivery failed: %w", err)
	} else {
		c.status = Success
		c.form = Form{}
	}
	c.gen++
	c.scheduleRevert(c.gen)
	return c.status, err
}

// scheduleRevert must be called with c.mu held.
func (c *Controller) scheduleRevert(gen uint64) {
	c.cancel = c.cfg.Schedule(c.cfg.ResetDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.gen != gen {
			return
		}
		c.status = Idle
		c.cancel = nil
	})
}

// stopRevert must be called with c.mu held.
func (c *Controller) stopRevert() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
