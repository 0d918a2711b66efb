package webwindow

import "log"

// Callback signatures, one per event kind. All run synchronously on the
// loop goroutine, inline with native event delivery; a callback that
// blocks stalls the entire UI thread (documented caveat, not enforced).
type (
	// MessageFunc receives strings posted by webview content.
	MessageFunc func(w *Window, message string)
	// ClosingFunc gates a close request; false keeps the window alive.
	ClosingFunc func(w *Window) bool
	// ResizedFunc reports a new inner size in logical units.
	ResizedFunc func(w *Window, width, height float64)
	// MovedFunc reports a new outer position in logical units.
	MovedFunc func(w *Window, x, y float64)
	// FocusFunc reports focus gained or lost.
	FocusFunc func(w *Window, focused bool)
	// NavigationFunc gates a navigation; false cancels it.
	NavigationFunc func(w *Window, url string) bool
)

// callbackSet holds one slot per event kind. Setters overwrite
// (last-write-wins); fan-out is the caller's business. Boolean slots
// default to allow when unset, preserving the fail-open policy of the
// original layer.
type callbackSet struct {
	message    MessageFunc
	closing    ClosingFunc
	resized    ResizedFunc
	moved      MovedFunc
	focus      FocusFunc
	navigation NavigationFunc
}

func (c *callbackSet) callMessage(w *Window, message string) {
	if c.message == nil {
		return
	}
	defer recoverCallback("message")
	c.message(w, message)
}

// callClosing returns true when the close should proceed. A panicking
// callback counts as the default (allow), the same fail-open stance as
// an absent one.
func (c *callbackSet) callClosing(w *Window) (allow bool) {
	if c.closing == nil {
		return true
	}
	allow = true
	defer recoverCallback("closing")
	allow = c.closing(w)
	return allow
}

func (c *callbackSet) callResized(w *Window, width, height float64) {
	if c.resized == nil {
		return
	}
	defer recoverCallback("resized")
	c.resized(w, width, height)
}

func (c *callbackSet) callMoved(w *Window, x, y float64) {
	if c.moved == nil {
		return
	}
	defer recoverCallback("moved")
	c.moved(w, x, y)
}

func (c *callbackSet) callFocus(w *Window, focused bool) {
	if c.focus == nil {
		return
	}
	defer recoverCallback("focus")
	c.focus(w, focused)
}

func (c *callbackSet) callNavigation(w *Window, url string) (allow bool) {
	if c.navigation == nil {
		return true
	}
	allow = true
	defer recoverCallback("navigation")
	allow = c.navigation(w, url)
	return allow
}

// clear drops every slot so destroyed windows release whatever the
// callbacks captured.
func (c *callbackSet) clear() {
	*c = callbackSet{}
}

func recoverCallback(kind string) {
	if r := recover(); r != nil {
		log.Printf("webwindow: %s callback panicked: %v", kind, r)
	}
}
