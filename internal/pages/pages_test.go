package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redterminal/portfolio/internal/contact"
	"github.com/redterminal/portfolio/internal/mailer"
)

var okSender = mailer.SenderFunc(func(context.Context, mailer.Message) error { return nil })

func TestNewAndGet(t *testing.T) {
	s := NewStore(okSender, contact.Config{}, time.Minute, 0)
	a := s.New()
	b := s.New()
	if a.ID == b.ID {
		t.Fatalf("page ids collide: %s", a.ID)
	}
	if a.Contact == b.Contact {
		t.Fatal("pages share a contact controller")
	}
	if a.Contact.Status() != contact.Idle {
		t.Fatalf("new page status = %s, want idle", a.Contact.Status())
	}

	got, err := s.Get(a.ID)
	if err != nil || got != a {
		t.Fatalf("Get(%s) = %v, %v", a.ID, got, err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
}

func TestGetUnknown(t *testing.T) {
	s := NewStore(okSender, contact.Config{}, time.Minute, 0)
	for _, id := range []string{"", "not-a-uuid", "2b0c7a8e-8f5a-4a8e-9d6e-1f6a4c1c2d3e"} {
		if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestSweepEvictsIdlePages(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(okSender, contact.Config{}, 10*time.Minute, 0)
	s.now = func() time.Time { return now }

	stale := s.New()
	now = now.Add(8 * time.Minute)
	fresh := s.New()
	now = now.Add(5 * time.Minute)

	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep evicted %d, want 1", n)
	}
	if _, err := s.Get(stale.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale page still present: %v", err)
	}
	if _, err := s.Get(fresh.ID); err != nil {
		t.Fatalf("fresh page evicted: %v", err)
	}
}

func TestSweepKeepsInFlightPages(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	blocking := mailer.SenderFunc(func(context.Context, mailer.Message) error {
		close(entered)
		<-release
		return nil
	})

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(blocking, contact.Config{Schedule: func(time.Duration, func()) func() { return func() {} }}, time.Minute, 0)
	s.now = func() time.Time { return now }

	p := s.New()
	p.Contact.SetForm(contact.Form{Name: "a", Email: "b", Subject: "c", Message: "d"})
	done := make(chan struct{})
	go func() {
		p.Contact.Submit(context.Background())
		close(done)
	}()
	<-entered

	now = now.Add(time.Hour)
	if n := s.Sweep(); n != 0 {
		t.Fatalf("Sweep evicted %d in-flight page(s)", n)
	}
	close(release)
	<-done

	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep after delivery evicted %d, want 1", n)
	}
}

func TestStartSweeperRejectsBadSpec(t *testing.T) {
	s := NewStore(okSender, contact.Config{}, time.Minute, 0)
	if _, err := s.StartSweeper("every now and then"); err == nil {
		t.Fatal("expected invalid cron spec to fail")
	}
	stop, err := s.StartSweeper("@every 1h")
	if err != nil {
		t.Fatalf("StartSweeper: %v", err)
	}
	stop()
}

func TestNewEvictsLeastRecentlySeenWhenFull(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(okSender, contact.Config{}, time.Hour, 3)
	s.now = func() time.Time { return now }

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, s.New().ID)
		now = now.Add(time.Second)
	}
	// Touching the first page makes the second the least recently seen.
	if _, err := s.Get(ids[0]); err != nil {
		t.Fatalf("Get: %v", err)
	}
	now = now.Add(time.Second)

	s.New()
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if _, err := s.Get(ids[1]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("least recently seen page kept: %v", err)
	}
	for _, id := range []string{ids[0], ids[2]} {
		if _, err := s.Get(id); err != nil {
			t.Fatalf("page %s evicted: %v", id, err)
		}
	}

	for i := 0; i < 1000; i++ {
		s.New()
		now = now.Add(time.Millisecond)
	}
	if s.Len() != 3 {
		t.Fatalf("Len after 1000 loads = %d, want 3", s.Len())
	}
}

func TestNewKeepsInFlightPagesWhenFull(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	blocking := mailer.SenderFunc(func(context.Context, mailer.Message) error {
		close(entered)
		<-release
		return nil
	})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(blocking, contact.Config{Schedule: func(time.Duration, func()) func() { return func() {} }}, time.Hour, 1)
	s.now = func() time.Time { return now }

	p := s.New()
	done := make(chan struct{})
	go func() {
		p.Contact.SubmitForm(context.Background(), contact.Form{Name: "a", Email: "b", Subject: "c", Message: "d"})
		close(done)
	}()
	<-entered

	now = now.Add(time.Minute)
	q := s.New()
	now = now.Add(time.Minute)
	if _, err := s.Get(p.ID); err != nil {
		t.Fatalf("in-flight page evicted: %v", err)
	}
	close(release)
	<-done

	s.New()
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if _, err := s.Get(q.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("oldest idle page kept: %v", err)
	}
}
