// Package platform abstracts the native windowing and webview layer
// behind a capability-polymorphic Backend interface. Two variants ship
// with the toolkit: the cgo-backed webview backend for real desktop use,
// and a pure-Go stub for tests and headless hosts. Capabilities a
// backend does not support fail with ErrNotSupported rather than
// panicking or succeeding silently.
package platform

import "errors"

// ErrNotSupported is returned by backend operations the selected
// platform variant cannot perform.
var ErrNotSupported = errors.New("platform: not supported by this backend")

// ErrWindowGone is returned by operations on a window whose native
// handle has already been destroyed.
var ErrWindowGone = errors.New("platform: window already destroyed")

// ControlFlow is the value a loop consumer returns to steer pumping.
type ControlFlow int

const (
	// Poll keeps the loop spinning even when no events are pending.
	Poll ControlFlow = iota
	// Wait parks the loop until the next native event arrives.
	Wait
	// Exit stops the loop; Run returns after delivering LoopDestroyed.
	Exit
)

// WindowConfig carries everything a backend needs to construct a window.
// Sizes and positions are logical (DPI-scaled) units.
type WindowConfig struct {
	Title     string
	X, Y      float64
	Width     float64
	Height    float64
	MinWidth  float64
	MinHeight float64
	MaxWidth  float64 // 0 = no max
	MaxHeight float64 // 0 = no max

	Resizable   bool
	Visible     bool
	Decorations bool
	AlwaysOnTop bool
	Transparent bool
	Fullscreen  bool
	Maximized   bool
}

// SchemeResponse is what a custom-protocol handler produces for a
// scheme:// request originating inside a webview.
type SchemeResponse struct {
	Status   int // 0 means 200
	MimeType string
	Body     []byte
}

// WebviewConfig carries webview construction options plus the hooks the
// toolkit wires into every webview.
type WebviewConfig struct {
	URL       string
	HTML      string
	UserAgent string
	DataDir   string
	Devtools  bool

	// InitScripts are evaluated in order on every page load, before any
	// page script runs.
	InitScripts []string

	// OnMessage receives strings posted by page content through the IPC
	// channel. May be invoked from a non-loop thread by some backends.
	OnMessage func(message string)

	// OnNavigate gates navigation; returning false cancels it. A nil
	// hook allows everything.
	OnNavigate func(url string) bool

	// ResolveScheme resolves custom-protocol requests. Returning false
	// means the scheme is unhandled (404 to the page).
	ResolveScheme func(url string) (SchemeResponse, bool)
}

// Backend is one native platform variant. All methods except Dispatch
// and Quit must be called from the goroutine that owns the loop.
type Backend interface {
	// Name identifies the variant ("webviewgo", "stub").
	Name() string

	// Init performs one-time process-wide GUI initialisation. Must run
	// on the platform's designated main thread; the first window
	// creation pays for anything Init defers.
	Init() error

	// CreateWindow constructs a native window. Loop goroutine only.
	CreateWindow(cfg WindowConfig) (Window, error)

	// Run pumps the native loop on the calling goroutine, invoking
	// deliver for each event until deliver returns Exit or Quit is
	// called. Run consumes the loop: a second call fails.
	Run(deliver func(Event) ControlFlow) error

	// Dispatch queues fn for execution on the loop goroutine. Safe to
	// call from any goroutine. Fails once the loop has stopped; queued
	// work not yet consumed when the loop stops is dropped.
	Dispatch(fn func()) error

	// Quit wakes the loop and makes Run return. Safe from any goroutine.
	Quit()

	// Teardown releases backend resources. Must not be called while Run
	// is pumping.
	Teardown() error
}

// Window is one native window. Mutators are loop-goroutine-only by
// contract, matching the single-thread affinity of the wrapped toolkits.
type Window interface {
	ID() WindowID

	SetTitle(title string) error
	Title() string

	SetSize(width, height float64) error
	Size() (width, height float64)
	SetMinSize(width, height float64) error
	SetMaxSize(width, height float64) error

	SetPosition(x, y float64) error
	Position() (x, y float64)

	SetVisible(visible bool) error
	Visible() bool

	SetResizable(resizable bool) error
	SetAlwaysOnTop(onTop bool) error
	SetFullscreen(fullscreen bool) error
	Fullscreen() bool
	SetMaximized(maximized bool) error
	Maximized() bool
	SetMinimized(minimized bool) error
	Minimized() bool

	Focus() error
	Focused() bool
	ScaleFactor() float64

	// NewWebview attaches a webview filling the window. At most one
	// webview per window.
	NewWebview(cfg WebviewConfig) (Webview, error)

	// Destroy tears down the native window (and its webview). The
	// backend emits Destroyed for it on the event stream.
	Destroy() error
}

// Webview is the browser surface embedded in a window.
type Webview interface {
	// ID is a stable opaque identifier for IPC routing.
	ID() string

	Navigate(url string) error
	LoadHTML(html string) error
	Eval(script string) error
	Reload() error
	SetZoom(factor float64) error
	URL() string

	OpenDevtools() error
	CloseDevtools() error

	Destroy() error
}
