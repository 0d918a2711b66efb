package webwindow

import (
	"errors"
	"sync/atomic"

	"github.com/trevwilson/webwindow/platform"
)

// Window wraps one native window together with its handle, callback
// slots, and optional webview. Mutating operations must run on the loop
// goroutine; SendMessage and RequestClose are safe from any goroutine.
type Window struct {
	app       *App
	handle    Handle
	id        platform.WindowID
	native    platform.Window
	webview   *Webview
	callbacks callbackSet
	destroyed atomic.Bool
}

// WindowOption configures window construction.
type WindowOption func(*platform.WindowConfig)

// WithTitle sets the initial title.
func WithTitle(title string) WindowOption {
	return func(c *platform.WindowConfig) { c.Title = title }
}

// WithSize sets the initial inner size in logical units.
func WithSize(width, height float64) WindowOption {
	return func(c *platform.WindowConfig) { c.Width, c.Height = width, height }
}

// WithPosition sets the initial outer position in logical units.
func WithPosition(x, y float64) WindowOption {
	return func(c *platform.WindowConfig) { c.X, c.Y = x, y }
}

// WithMinSize constrains the window's minimum inner size.
func WithMinSize(width, height float64) WindowOption {
	return func(c *platform.WindowConfig) { c.MinWidth, c.MinHeight = width, height }
}

// WithMaxSize constrains the window's maximum inner size.
func WithMaxSize(width, height float64) WindowOption {
	return func(c *platform.WindowConfig) { c.MaxWidth, c.MaxHeight = width, height }
}

// WithResizable controls user resizing. Defaults to true.
func WithResizable(resizable bool) WindowOption {
	return func(c *platform.WindowConfig) { c.Resizable = resizable }
}

// WithVisible controls initial visibility. Defaults to true.
func WithVisible(visible bool) WindowOption {
	return func(c *platform.WindowConfig) { c.Visible = visible }
}

// WithDecorations controls the native frame. Defaults to true.
func WithDecorations(decorations bool) WindowOption {
	return func(c *platform.WindowConfig) { c.Decorations = decorations }
}

// WithAlwaysOnTop keeps the window above normal windows.
func WithAlwaysOnTop(onTop bool) WindowOption {
	return func(c *platform.WindowConfig) { c.AlwaysOnTop = onTop }
}

// WithTransparent requests a transparent window background.
func WithTransparent(transparent bool) WindowOption {
	return func(c *platform.WindowConfig) { c.Transparent = transparent }
}

// WithFullscreen starts the window in borderless fullscreen.
func WithFullscreen(fullscreen bool) WindowOption {
	return func(c *platform.WindowConfig) { c.Fullscreen = fullscreen }
}

// WithMaximized starts the window maximized.
func WithMaximized(maximized bool) WindowOption {
	return func(c *platform.WindowConfig) { c.Maximized = maximized }
}

// CreateWindow builds a window, registers it, and returns it alongside
// its handle. Loop goroutine only; may also be called before Run.
func (a *App) CreateWindow(opts ...WindowOption) (*Window, error) {
	cfg := platform.WindowConfig{
		Width:       800,
		Height:      600,
		Resizable:   true,
		Visible:     true,
		Decorations: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		a.setLastError("create window: non-positive size %gx%g", cfg.Width, cfg.Height)
		return nil, ErrInvalidParameter
	}

	var w *Window
	err := a.guardErr("create window", func() error {
		native, err := a.backend.CreateWindow(cfg)
		if err != nil {
			return err
		}
		w = &Window{app: a, id: native.ID(), native: native}
		w.handle = a.handles.alloc(w)
		a.windows[w.id] = w
		a.hadWindows = true
		return nil
	})
	if err != nil {
		if w == nil {
			a.setLastError("create window: %v", err)
		}
		return nil, err
	}
	return w, nil
}

// Handle returns the window's registry handle. Handles stay unique for
// the life of the process; a destroyed window's handle never resolves
// again.
func (w *Window) Handle() Handle { return w.handle }

// Webview returns the attached webview, or nil before Attach.
func (w *Window) Webview() *Webview { return w.webview }

// guard returns ErrWindowDestroyed once the window has been removed,
// recording it in the app's last-error cell.
func (w *Window) guard(op string) error {
	if w.destroyed.Load() {
		w.app.setLastError("%s: window %d destroyed", op, w.id)
		return ErrWindowDestroyed
	}
	return nil
}

// do runs a native operation under the panic guard and folds the
// backend's capability error into the package taxonomy.
func (w *Window) do(op string, fn func() error) error {
	err := w.app.guardErr(op, fn)
	if errors.Is(err, platform.ErrNotSupported) {
		w.app.setLastError("%s: %v", op, err)
		return ErrNotSupported
	}
	return err
}

func (w *Window) SetTitle(title string) error {
	if err := w.guard("set title"); err != nil {
		return err
	}
	return w.do("set title", func() error { return w.native.SetTitle(title) })
}

func (w *Window) Title() string {
	if w.destroyed.Load() {
		return ""
	}
	return w.native.Title()
}

func (w *Window) SetSize(width, height float64) error {
	if err := w.guard("set size"); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		w.app.setLastError("set size: non-positive size %gx%g", width, height)
		return ErrInvalidParameter
	}
	return w.do("set size", func() error { return w.native.SetSize(width, height) })
}

func (w *Window) Size() (width, height float64) {
	if w.destroyed.Load() {
		return 0, 0
	}
	return w.native.Size()
}

func (w *Window) SetMinSize(width, height float64) error {
	if err := w.guard("set min size"); err != nil {
		return err
	}
	return w.do("set min size", func() error { return w.native.SetMinSize(width, height) })
}

func (w *Window) SetMaxSize(width, height float64) error {
	if err := w.guard("set max size"); err != nil {
		return err
	}
	return w.do("set max size", func() error { return w.native.SetMaxSize(width, height) })
}

func (w *Window) SetPosition(x, y float64) error {
	if err := w.guard("set position"); err != nil {
		return err
	}
	return w.do("set position", func() error { return w.native.SetPosition(x, y) })
}

func (w *Window) Position() (x, y float64) {
	if w.destroyed.Load() {
		return 0, 0
	}
	return w.native.Position()
}

func (w *Window) SetVisible(visible bool) error {
	if err := w.guard("set visible"); err != nil {
		return err
	}
	return w.do("set visible", func() error { return w.native.SetVisible(visible) })
}

func (w *Window) Visible() bool {
	if w.destroyed.Load() {
		return false
	}
	return w.native.Visible()
}

func (w *Window) SetResizable(resizable bool) error {
	if err := w.guard("set resizable"); err != nil {
		return err
	}
	return w.do("set resizable", func() error { return w.native.SetResizable(resizable) })
}

func (w *Window) SetAlwaysOnTop(onTop bool) error {
	if err := w.guard("set always on top"); err != nil {
		return err
	}
	return w.do("set always on top", func() error { return w.native.SetAlwaysOnTop(onTop) })
}

func (w *Window) SetFullscreen(fullscreen bool) error {
	if err := w.guard("set fullscreen"); err != nil {
		return err
	}
	return w.do("set fullscreen", func() error { return w.native.SetFullscreen(fullscreen) })
}

func (w *Window) Fullscreen() bool {
	if w.destroyed.Load() {
		return false
	}
	return w.native.Fullscreen()
}

func (w *Window) SetMaximized(maximized bool) error {
	if err := w.guard("set maximized"); err != nil {
		return err
	}
	return w.do("set maximized", func() error { return w.native.SetMaximized(maximized) })
}

func (w *Window) Maximized() bool {
	if w.destroyed.Load() {
		return false
	}
	return w.native.Maximized()
}

func (w *Window) SetMinimized(minimized bool) error {
	if err := w.guard("set minimized"); err != nil {
		return err
	}
	return w.do("set minimized", func() error { return w.native.SetMinimized(minimized) })
}

func (w *Window) Minimized() bool {
	if w.destroyed.Load() {
		return false
	}
	return w.native.Minimized()
}

func (w *Window) Focus() error {
	if err := w.guard("focus"); err != nil {
		return err
	}
	return w.do("focus", func() error { return w.native.Focus() })
}

func (w *Window) Focused() bool {
	if w.destroyed.Load() {
		return false
	}
	return w.native.Focused()
}

// ScaleFactor reports the window's DPI scale; 1.0 after destruction.
func (w *Window) ScaleFactor() float64 {
	if w.destroyed.Load() {
		return 1.0
	}
	return w.native.ScaleFactor()
}

// OnMessage installs the webview message callback. Last write wins.
func (w *Window) OnMessage(fn MessageFunc) { w.callbacks.message = fn }

// OnClosing installs the close gate. Returning false from the callback
// keeps the window alive; unset means allow.
func (w *Window) OnClosing(fn ClosingFunc) { w.callbacks.closing = fn }

// OnResized installs the resize callback.
func (w *Window) OnResized(fn ResizedFunc) { w.callbacks.resized = fn }

// OnMoved installs the move callback.
func (w *Window) OnMoved(fn MovedFunc) { w.callbacks.moved = fn }

// OnFocus installs the focus-change callback.
func (w *Window) OnFocus(fn FocusFunc) { w.callbacks.focus = fn }

// OnNavigation installs the navigation gate for the window's webview.
// Returning false cancels the navigation; unset means allow.
func (w *Window) OnNavigation(fn NavigationFunc) { w.callbacks.navigation = fn }

// RequestClose asks the window to close through the same path a native
// close button takes: the closing callback runs and may deny. Safe from
// any goroutine.
func (w *Window) RequestClose() {
	id := w.id
	if err := w.app.backend.Dispatch(func() {
		w.app.handleCloseRequested(id)
	}); err != nil {
		w.app.setLastError("request close: %v", err)
	}
}

// Destroy removes the window immediately, bypassing the closing
// callback. Loop goroutine only.
func (w *Window) Destroy() error {
	if err := w.guard("destroy"); err != nil {
		return err
	}
	w.app.removeWindow(w)
	return nil
}
