// Package pages keeps the in-memory state of each rendered page instance.
// Nothing is shared between instances and nothing outlives the process.
package pages

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/redterminal/portfolio/internal/contact"
	"github.com/redterminal/portfolio/internal/mailer"
)

const (
	// DefaultTTL is how long an untouched page instance is kept.
	DefaultTTL = 30 * time.Minute
	// DefaultLimit caps the number of live page instances.
	DefaultLimit = 5000
)

var ErrNotFound = errors.New("pages: unknown or expired page")

// Page is one page load.
type Page struct {
	ID      string
	Contact *contact.Controller

	lastSeen time.Time
}

// Store hands out page instances and evicts idle ones.
type Store struct {
	sender mailer.Sender
	cfg    contact.Config
	ttl    time.Duration
	limit  int
	now    func() time.Time

	mu    sync.Mutex
	pages map[string]*Page
}

// NewStore returns an empty store holding at most limit pages. Every page's
// controller delivers through sender using cfg.
func NewStore(sender mailer.Sender, cfg contact.Config, ttl time.Duration, limit int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		sender: sender,
		cfg:    cfg,
		ttl:    ttl,
		limit:  limit,
		now:    time.Now,
		pages:  make(map[string]*Page),
	}
}

// New mints a page instance with a fresh, idle contact form. When the store
// is full the least recently seen page without a submission in flight makes
// room for it.
func (s *Store) New() *Page {
	p := &Page{
		ID:       uuid.New().String(),
		Contact:  contact.NewController(s.sender, s.cfg),
		lastSeen: s.now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.pages) >= s.limit && s.evictOldest() {
	}
	s.pages[p.ID] = p
	return p
}

// evictOldest must be called with s.mu held. It reports false when every page
// has a submission in flight.
func (s *Store) evictOldest() bool {
	var oldest *Page
	for _, p := range s.pages {
		if p.Contact.Status() == contact.Sending {
			continue
		}
		if oldest == nil || p.lastSeen.Before(oldest.lastSeen) {
			oldest = p
		}
	}
	if oldest == nil {
		return false
	}
	delete(s.pages, oldest.ID)
	return true
}

// Get returns the page with id and marks it as seen.
func (s *Store) Get(id string) (*Page, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.lastSeen = s.now()
	return p, nil
}

// Len returns the number of live page instances.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Sweep drops pages idle for longer than the TTL. Pages with a submission in
// flight are kept. It returns the number of evicted pages.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, p := range s.pages {
		if p.lastSeen.After(cutoff) {
			continue
		}
		if p.Contact.Status() == contact.Sending {
			continue
		}
		delete(s.pages, id)
		n++
	}
	return n
}

// StartSweeper runs Sweep on the cron schedule spec (e.g. "@every 1m") and
// returns a func that stops it.
func (s *Store) StartSweeper(spec string) (stop func(), err error) {
	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		if n := s.Sweep(); n > 0 {
			log.Printf("pages: evicted %d idle page(s), %d live", n, s.Len())
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
