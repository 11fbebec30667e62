//go:build js && wasm

// Command scrollspy runs in the browser and keeps the header background and
// the navigation highlight in sync with the scroll position.
//
//	GOOS=js GOARCH=wasm go build -o static/scrollspy.wasm ./cmd/scrollspy
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" static/
package main

import (
	"syscall/js"

	"github.com/redterminal/portfolio/internal/scrollspy"
)

type domViewport struct {
	win js.Value
	doc js.Value
}

func (d domViewport) ScrollY() float64 {
	return d.win.Get("scrollY").Float()
}

func (d domViewport) Bounds(s scrollspy.Section) (scrollspy.Rect, bool) {
	el := d.doc.Call("getElementById", string(s))
	if el.IsNull() || el.IsUndefined() {
		return scrollspy.Rect{}, false
	}
	r := el.Call("getBoundingClientRect")
	return scrollspy.Rect{Top: r.Get("top").Float(), Bottom: r.Get("bottom").Float()}, true
}

// windowEvent is a DOM event on the window as a scrollspy.EventSource.
type windowEvent struct {
	win  js.Value
	name string
}

func (w windowEvent) Listen(fn func()) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	})
	w.win.Call("addEventListener", w.name, cb, map[string]any{"passive": true})
	return func() {
		w.win.Call("removeEventListener", w.name, cb)
		cb.Release()
	}
}

func render(doc js.Value, st scrollspy.State) {
	if header := doc.Call("getElementById", "site-header"); !header.IsNull() {
		header.Get("classList").Call("toggle", "scrolled", st.IsScrolled)
	}
	links := doc.Call("querySelectorAll", "a.nav-link[data-section]")
	for i := 0; i < links.Length(); i++ {
		a := links.Index(i)
		active := a.Get("dataset").Get("section").String() == string(st.Active)
		a.Get("classList").Call("toggle", "active", active)
	}
}

// bindSmoothScroll makes in-page anchors scroll smoothly to their section.
// The returned func removes the handlers.
func bindSmoothScroll(doc js.Value) func() {
	var release []func()
	anchors := doc.Call("querySelectorAll", "a[data-section]")
	for i := 0; i < anchors.Length(); i++ {
		a := anchors.Index(i)
		id := a.Get("dataset").Get("section").String()
		cb := js.FuncOf(func(this js.Value, args []js.Value) any {
			el := doc.Call("getElementById", id)
			if el.IsNull() {
				return nil
			}
			if len(args) > 0 {
				args[0].Call("preventDefault")
			}
			el.Call("scrollIntoView", map[string]any{"behavior": "smooth"})
			return nil
		})
		a.Call("addEventListener", "click", cb)
		release = append(release, func() {
			a.Call("removeEventListener", "click", cb)
			cb.Release()
		})
	}
	return func() {
		for _, fn := range release {
			fn()
		}
	}
}

func main() {
	win := js.Global()
	doc := win.Get("document")
	vp := domViewport{win: win, doc: doc}

	tracker := scrollspy.NewTracker(func(st scrollspy.State) { render(doc, st) })
	mount := tracker.Mount(windowEvent{win: win, name: "scroll"}, vp)
	unbind := bindSmoothScroll(doc)

	// The page may load already scrolled (anchor link, restored position).
	render(doc, tracker.Handle(vp))

	done := make(chan struct{})
	var onShow, onHide js.Func
	onShow = js.FuncOf(func(this js.Value, args []js.Value) any {
		render(doc, mount.Show())
		return nil
	})
	// A persisted pagehide means the page went into the back/forward cache
	// and may come back through pageshow.
	onHide = js.FuncOf(func(this js.Value, args []js.Value) any {
		persisted := len(args) > 0 && args[0].Get("persisted").Truthy()
		if !mount.Hide(persisted) {
			return nil
		}
		unbind()
		win.Call("removeEventListener", "pageshow", onShow)
		win.Call("removeEventListener", "pagehide", onHide)
		close(done)
		return nil
	})
	win.Call("addEventListener", "pageshow", onShow)
	win.Call("addEventListener", "pagehide", onHide)

	<-done
	onShow.Release()
	onHide.Release()
}
