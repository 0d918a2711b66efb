package webwindow

import (
	"errors"

	"github.com/trevwilson/webwindow/bridge"
	"github.com/trevwilson/webwindow/platform"
)

// Webview is the browser surface attached to a window, with the JS
// bridge injected and IPC routed back to the window's message callback.
type Webview struct {
	window *Window
	id     string
	native platform.Webview
}

// WebviewOption configures webview construction.
type WebviewOption func(*platform.WebviewConfig)

// WithURL navigates to url once the webview is ready. Mutually
// exclusive with WithHTML; the last option wins.
func WithURL(url string) WebviewOption {
	return func(c *platform.WebviewConfig) { c.URL, c.HTML = url, "" }
}

// WithHTML loads a literal document instead of navigating.
func WithHTML(html string) WebviewOption {
	return func(c *platform.WebviewConfig) { c.HTML, c.URL = html, "" }
}

// WithUserAgent overrides the webview's user-agent string.
func WithUserAgent(ua string) WebviewOption {
	return func(c *platform.WebviewConfig) { c.UserAgent = ua }
}

// WithDataDir sets the browsing-data directory (cookies, storage).
func WithDataDir(dir string) WebviewOption {
	return func(c *platform.WebviewConfig) { c.DataDir = dir }
}

// WithDevtools enables the inspector.
func WithDevtools(enabled bool) WebviewOption {
	return func(c *platform.WebviewConfig) { c.Devtools = enabled }
}

// WithInitScript appends a script evaluated on every page load before
// page scripts run. May be given multiple times.
func WithInitScript(script string) WebviewOption {
	return func(c *platform.WebviewConfig) { c.InitScripts = append(c.InitScripts, script) }
}

// AttachWebview creates the window's webview. The bridge script is
// always injected first, so page content finds window.webwindow before
// any host init script or page script runs. At most one webview per
// window. Loop goroutine only.
func (w *Window) AttachWebview(opts ...WebviewOption) (*Webview, error) {
	if err := w.guard("attach webview"); err != nil {
		return nil, err
	}
	if w.webview != nil {
		w.app.setLastError("attach webview: window %d already has one", w.id)
		return nil, ErrInvalidParameter
	}

	cfg := platform.WebviewConfig{
		InitScripts: []string{bridge.Script},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := w.app
	cfg.OnMessage = func(message string) {
		a.routeMessage(w.handle, message)
	}
	cfg.OnNavigate = func(url string) bool {
		return w.callbacks.callNavigation(w, url)
	}
	cfg.ResolveScheme = a.resolveScheme

	var wv *Webview
	err := a.guardErr("attach webview", func() error {
		native, err := w.native.NewWebview(cfg)
		if err != nil {
			return err
		}
		wv = &Webview{window: w, id: native.ID(), native: native}
		return nil
	})
	if err != nil {
		a.setLastError("attach webview: %v", err)
		return nil, err
	}

	w.webview = wv
	a.ipcMu.Lock()
	a.ipcRoutes[wv.id] = w.handle
	a.ipcMu.Unlock()
	return wv, nil
}

// routeMessage resolves a webview message to its window and runs the
// message callback on the loop goroutine. Backends are allowed to fire
// the hook from other threads; the dispatch hop restores affinity.
func (a *App) routeMessage(h Handle, message string) {
	if err := a.backend.Dispatch(func() {
		if w := a.handles.lookup(h); w != nil {
			w.callbacks.callMessage(w, message)
		}
	}); err != nil {
		a.setLastError("webview message dropped: %v", err)
	}
}

// SendMessage delivers a string to the page through the bridge receive
// path. Safe from any goroutine; returns false when the window is gone
// or the loop has stopped.
func (w *Window) SendMessage(message string) bool {
	if w.destroyed.Load() || w.webview == nil {
		w.app.setLastError("send message: window %d has no live webview", w.id)
		return false
	}
	wv := w.webview
	if err := w.app.backend.Dispatch(func() {
		if w.destroyed.Load() {
			return
		}
		if err := wv.native.Eval(bridge.ReceiveScript(message)); err != nil {
			w.app.setLastError("send message: eval: %v", err)
		}
	}); err != nil {
		w.app.setLastError("send message: %v", err)
		return false
	}
	return true
}

// ID is the webview's stable identifier used for IPC routing.
func (v *Webview) ID() string { return v.id }

// Window returns the owning window.
func (v *Webview) Window() *Window { return v.window }

func (v *Webview) guard(op string) error {
	if v.window.destroyed.Load() {
		v.window.app.setLastError("%s: window %d destroyed", op, v.window.id)
		return ErrWindowDestroyed
	}
	return nil
}

// do mirrors Window.do for webview-level native operations.
func (v *Webview) do(op string, fn func() error) error {
	err := v.window.app.guardErr(op, fn)
	if errors.Is(err, platform.ErrNotSupported) {
		v.window.app.setLastError("%s: %v", op, err)
		return ErrNotSupported
	}
	return err
}

// Navigate loads url, subject to the window's navigation gate.
func (v *Webview) Navigate(url string) error {
	if err := v.guard("navigate"); err != nil {
		return err
	}
	if url == "" {
		v.window.app.setLastError("navigate: empty url")
		return ErrInvalidParameter
	}
	return v.do("navigate", func() error { return v.native.Navigate(url) })
}

// LoadHTML replaces the document with a literal page.
func (v *Webview) LoadHTML(html string) error {
	if err := v.guard("load html"); err != nil {
		return err
	}
	return v.do("load html", func() error { return v.native.LoadHTML(html) })
}

// Eval runs script in the page context. Fire and forget; results come
// back, if at all, through the message channel.
func (v *Webview) Eval(script string) error {
	if err := v.guard("eval"); err != nil {
		return err
	}
	return v.do("eval", func() error { return v.native.Eval(script) })
}

// Reload reloads the current document.
func (v *Webview) Reload() error {
	if err := v.guard("reload"); err != nil {
		return err
	}
	return v.do("reload", func() error { return v.native.Reload() })
}

// SetZoom scales page content. factor must be positive.
func (v *Webview) SetZoom(factor float64) error {
	if err := v.guard("set zoom"); err != nil {
		return err
	}
	if factor <= 0 {
		v.window.app.setLastError("set zoom: non-positive factor %g", factor)
		return ErrInvalidParameter
	}
	return v.do("set zoom", func() error { return v.native.SetZoom(factor) })
}

// URL reports the current document URL.
func (v *Webview) URL() string {
	if v.window.destroyed.Load() {
		return ""
	}
	return v.native.URL()
}

// OpenDevtools opens the inspector where the backend supports it.
func (v *Webview) OpenDevtools() error {
	if err := v.guard("open devtools"); err != nil {
		return err
	}
	return v.do("open devtools", func() error { return v.native.OpenDevtools() })
}

// CloseDevtools closes the inspector.
func (v *Webview) CloseDevtools() error {
	if err := v.guard("close devtools"); err != nil {
		return err
	}
	return v.do("close devtools", func() error { return v.native.CloseDevtools() })
}
