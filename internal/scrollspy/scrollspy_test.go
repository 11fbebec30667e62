package scrollspy

import "testing"

type fakeViewport struct {
	y      float64
	bounds map[Section]Rect
}

func (f *fakeViewport) ScrollY() float64 { return f.y }

func (f *fakeViewport) Bounds(s Section) (Rect, bool) {
	r, ok := f.bounds[s]
	return r, ok
}

type fakeSource struct {
	listeners map[int]func()
	next      int
	removed   int
}

func newFakeSource() *fakeSource {
	return &fakeSource{listeners: map[int]func(){}}
}

func (f *fakeSource) Listen(fn func()) func() {
	id := f.next
	f.next++
	f.listeners[id] = fn
	return func() {
		delete(f.listeners, id)
		f.removed++
	}
}

func (f *fakeSource) fire() {
	for _, fn := range f.listeners {
		fn()
	}
}

func TestScrolledThreshold(t *testing.T) {
	tests := []struct {
		offset float64
		want   bool
	}{
		{0, false},
		{49.9, false},
		{50, false},
		{50.1, true},
		{51, true},
		{4000, true},
	}
	for _, tt := range tests {
		if got := Scrolled(tt.offset); got != tt.want {
			t.Errorf("Scrolled(%v) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestActive(t *testing.T) {
	tests := []struct {
		name   string
		bounds map[Section]Rect
		prev   Section
		want   Section
	}{
		{
			name: "single section on the line",
			bounds: map[Section]Rect{
				Home:   {Top: -900, Bottom: -100},
				About:  {Top: -100, Bottom: 600},
				Skills: {Top: 600, Bottom: 1400},
			},
			prev: Home,
			want: About,
		},
		{
			name: "edges are inclusive",
			bounds: map[Section]Rect{
				Skills:   {Top: 100, Bottom: 900},
				Projects: {Top: 900, Bottom: 1700},
			},
			prev: Home,
			want: Skills,
		},
		{
			name: "bottom edge touching the line",
			bounds: map[Section]Rect{
				Projects: {Top: -700, Bottom: 100},
			},
			prev: Home,
			want: Projects,
		},
		{
			name: "nothing straddles keeps previous",
			bounds: map[Section]Rect{
				Home:  {Top: -900, Bottom: 50},
				About: {Top: 150, Bottom: 800},
			},
			prev: Skills,
			want: Skills,
		},
		{
			name:   "missing elements are skipped",
			bounds: map[Section]Rect{Contact: {Top: 0, Bottom: 500}},
			prev:   Home,
			want:   Contact,
		},
		{
			name: "overlap resolves by document order",
			bounds: map[Section]Rect{
				Projects: {Top: 0, Bottom: 200},
				About:    {Top: 50, Bottom: 300},
			},
			prev: Home,
			want: About,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &fakeViewport{bounds: tt.bounds}
			if got := Active(Sections, v.Bounds, tt.prev); got != tt.want {
				t.Fatalf("Active = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrackerHandleNotifiesOnChange(t *testing.T) {
	var seen []State
	tr := NewTracker(func(s State) { seen = append(seen, s) })

	if got := tr.State(); got != Initial() {
		t.Fatalf("initial state = %+v", got)
	}

	v := &fakeViewport{y: 10, bounds: map[Section]Rect{Home: {Top: -10, Bottom: 700}}}
	tr.Handle(v)
	if len(seen) != 0 {
		t.Fatalf("unchanged state should not notify, got %d calls", len(seen))
	}

	v.y = 720
	v.bounds = map[Section]Rect{
		Home:  {Top: -720, Bottom: -20},
		About: {Top: -20, Bottom: 680},
	}
	got := tr.Handle(v)
	want := State{IsScrolled: true, Active: About}
	if got != want {
		t.Fatalf("Handle = %+v, want %+v", got, want)
	}
	if len(seen) != 1 || seen[0] != want {
		t.Fatalf("notifications = %+v", seen)
	}

	// A gap between sections keeps About highlighted.
	v.y = 800
	v.bounds = map[Section]Rect{About: {Top: -100, Bottom: 90}, Skills: {Top: 110, Bottom: 900}}
	if got := tr.Handle(v); got.Active != About {
		t.Fatalf("active after gap = %q, want %q", got.Active, About)
	}
}

func TestTrackerAttachDetach(t *testing.T) {
	src := newFakeSource()
	v := &fakeViewport{y: 300, bounds: map[Section]Rect{Skills: {Top: 0, Bottom: 400}}}
	tr := NewTracker(nil)

	detach := tr.Attach(src, v)
	tr.Attach(src, v)
	if len(src.listeners) != 1 {
		t.Fatalf("listeners = %d, want 1", len(src.listeners))
	}

	src.fire()
	if got := tr.State(); got != (State{IsScrolled: true, Active: Skills}) {
		t.Fatalf("state after event = %+v", got)
	}

	detach()
	detach()
	if len(src.listeners) != 0 || src.removed != 1 {
		t.Fatalf("after detach: listeners=%d removed=%d", len(src.listeners), src.removed)
	}

	tr.Attach(src, v)
	if len(src.listeners) != 1 {
		t.Fatalf("reattach listeners = %d, want 1", len(src.listeners))
	}
}

func TestMountSurvivesCachedHide(t *testing.T) {
	src := newFakeSource()
	v := &fakeViewport{y: 0, bounds: map[Section]Rect{Home: {Top: 0, Bottom: 700}}}
	tr := NewTracker(nil)

	m := tr.Mount(src, v)
	if len(src.listeners) != 1 {
		t.Fatalf("listeners = %d, want 1", len(src.listeners))
	}

	if gone := m.Hide(true); gone {
		t.Fatal("persisted hide reported the page as gone")
	}
	if len(src.listeners) != 0 {
		t.Fatalf("listeners while cached = %d, want 0", len(src.listeners))
	}

	// Restored further down the page.
	v.y = 1500
	v.bounds = map[Section]Rect{Projects: {Top: -200, Bottom: 600}}
	if got := m.Show(); got != (State{IsScrolled: true, Active: Projects}) {
		t.Fatalf("state after restore = %+v", got)
	}
	m.Show()
	if len(src.listeners) != 1 {
		t.Fatalf("listeners after restore = %d, want 1", len(src.listeners))
	}

	v.bounds = map[Section]Rect{Contact: {Top: 0, Bottom: 400}}
	src.fire()
	if got := tr.State().Active; got != Contact {
		t.Fatalf("active after scroll on restored page = %q, want %q", got, Contact)
	}

	if gone := m.Hide(false); !gone {
		t.Fatal("final hide should report the page as gone")
	}
	if len(src.listeners) != 0 || src.removed != 2 {
		t.Fatalf("after unload: listeners=%d removed=%d", len(src.listeners), src.removed)
	}
}
