// Package scrollspy derives the header and navigation highlight state of the
// single-page site from the viewport scroll position.
package scrollspy

import "sync"

// Section is the id of an anchorable region of the page.
type Section string

const (
	Home     Section = "home"
	About    Section = "about"
	Skills   Section = "skills"
	Projects Section = "projects"
	Contact  Section = "contact"
)

// Sections is the fixed document order used when scanning for the active section.
var Sections = []Section{Home, About, Skills, Projects, Contact}

const (
	// ScrolledThreshold is the scroll offset past which the header turns opaque.
	ScrolledThreshold = 50
	// ReferenceLine is the distance from the viewport top a section must straddle to be active.
	ReferenceLine = 100
)

// Rect is the vertical extent of an element relative to the viewport top.
type Rect struct {
	Top    float64
	Bottom float64
}

// Straddles reports whether the rect crosses the horizontal line at y.
func (r Rect) Straddles(y float64) bool {
	return r.Top <= y && r.Bottom >= y
}

// State is the derived scroll state rendered by the header and nav.
type State struct {
	IsScrolled bool
	Active     Section
}

// Initial is the state before the first scroll event.
func Initial() State {
	return State{Active: Home}
}

// Scrolled reports whether the page is scrolled past the header threshold.
func Scrolled(offset float64) bool {
	return offset > ScrolledThreshold
}

// Active returns the first section in order whose bounds straddle the
// reference line. Sections without bounds are skipped. When nothing matches
// prev is returned unchanged.
func Active(order []Section, bounds func(Section) (Rect, bool), prev Section) Section {
	for _, s := range order {
		r, ok := bounds(s)
		if !ok {
			continue
		}
		if r.Straddles(ReferenceLine) {
			return s
		}
	}
	return prev
}

// Viewport is the window/DOM seen by the tracker.
type Viewport interface {
	ScrollY() float64
	Bounds(Section) (Rect, bool)
}

// EventSource delivers scroll events. Listen registers fn and returns a
// function that removes it.
type EventSource interface {
	Listen(fn func()) (remove func())
}

// Tracker keeps the scroll state of one page and recomputes it on every
// scroll event.
type Tracker struct {
	mu       sync.Mutex
	order    []Section
	state    State
	onChange func(State)
	detach   func()
}

// NewTracker returns a tracker over the default section order. onChange is
// called after every event that changes the state; it may be nil.
func NewTracker(onChange func(State)) *Tracker {
	return &Tracker{
		order:    Sections,
		state:    Initial(),
		onChange: onChange,
	}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Handle recomputes the state from v and returns it.
func (t *Tracker) Handle(v Viewport) State {
	t.mu.Lock()
	prev := t.state
	next := State{
		IsScrolled: Scrolled(v.ScrollY()),
		Active:     Active(t.order, v.Bounds, prev.Active),
	}
	t.state = next
	onChange := t.onChange
	t.mu.Unlock()

	if next != prev && onChange != nil {
		onChange(next)
	}
	return next
}

// Attach subscribes the tracker to src, reading positions from v on each
// event. Only one subscription exists at a time: attaching again while
// attached returns the existing detach func. Detach is safe to call more
// than once.
func (t *Tracker) Attach(src EventSource, v Viewport) (detach func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.detach != nil {
		return t.detach
	}

	remove := src.Listen(func() { t.Handle(v) })
	var once sync.Once
	t.detach = func() {
		once.Do(func() {
			remove()
			t.mu.Lock()
			t.detach = nil
			t.mu.Unlock()
		})
	}
	return t.detach
}

// Mount keeps a tracker subscribed for the lifetime of a page, including
// hides where the browser keeps the page in its back/forward cache.
type Mount struct {
	t      *Tracker
	src    EventSource
	v      Viewport
	detach func()
}

// Mount attaches t to src and returns the handle used on pagehide/pageshow.
func (t *Tracker) Mount(src EventSource, v Viewport) *Mount {
	m := &Mount{t: t, src: src, v: v}
	m.detach = t.Attach(src, v)
	return m
}

// Hide drops the listener. It reports whether the page is gone for good; a
// persisted page may be shown again.
func (m *Mount) Hide(persisted bool) (gone bool) {
	m.detach()
	return !persisted
}

// Show attaches again if needed and recomputes the state from the restored
// scroll position.
func (m *Mount) Show() State {
	m.detach = m.t.Attach(m.src, m.v)
	return m.t.Handle(m.v)
}
