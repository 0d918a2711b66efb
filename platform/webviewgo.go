//go:build cgo

package platform

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	webview "github.com/webview/webview_go"
)

// WebviewGo is the cgo backend over github.com/webview/webview_go. The
// underlying binding couples one native window to one webview and owns
// the native run loop, so this variant supports a single window; hosts
// that need multi-window or a full native event stream should drive a
// richer backend through the same interface.
//
// The binding surfaces no window events (resize, move, focus); only
// dispatched work and proxy-injected events flow through Run here. That
// matches its role as a thin delegated collaborator.
type WebviewGo struct {
	mu      sync.Mutex
	window  *wgoWindow
	deliver func(Event) ControlFlow

	ran     atomic.Bool
	stopped atomic.Bool
}

// NewWebviewGo creates the cgo backend. Call from the main goroutine;
// webview_go locks the OS thread on package init.
func NewWebviewGo() *WebviewGo {
	return &WebviewGo{}
}

func (b *WebviewGo) Name() string { return "webviewgo" }

func (b *WebviewGo) Init() error { return nil }

func (b *WebviewGo) CreateWindow(cfg WindowConfig) (Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.window != nil {
		return nil, fmt.Errorf("%w: webviewgo supports one window", ErrNotSupported)
	}
	w := &wgoWindow{
		backend: b,
		id:      1,
		title:   cfg.Title,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	b.window = w
	return w, nil
}

func (b *WebviewGo) Run(deliver func(Event) ControlFlow) error {
	if !b.ran.CompareAndSwap(false, true) {
		return ErrLoopConsumed
	}
	b.mu.Lock()
	w := b.window
	b.deliver = deliver
	b.mu.Unlock()
	if w == nil || w.view() == nil {
		b.stopped.Store(true)
		deliver(LoopDestroyed{})
		return fmt.Errorf("webviewgo: no window with webview to run")
	}
	w.view().Run()
	b.stopped.Store(true)
	deliver(LoopDestroyed{})
	return nil
}

func (b *WebviewGo) Dispatch(fn func()) error {
	if b.stopped.Load() {
		return ErrLoopStopped
	}
	b.mu.Lock()
	w := b.window
	b.mu.Unlock()
	if w == nil || w.view() == nil {
		return ErrLoopStopped
	}
	w.view().Dispatch(fn)
	return nil
}

func (b *WebviewGo) Quit() {
	b.mu.Lock()
	w := b.window
	b.mu.Unlock()
	if w != nil && w.view() != nil {
		w.view().Terminate()
	}
}

func (b *WebviewGo) Teardown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.window != nil && b.window.view() != nil {
		b.window.view().Destroy()
	}
	b.window = nil
	return nil
}

// emit routes a synthetic event to the deliver callback on the loop
// thread; used by proxies and webview hooks.
func (b *WebviewGo) emit(ev Event) {
	_ = b.Dispatch(func() {
		b.mu.Lock()
		deliver := b.deliver
		b.mu.Unlock()
		if deliver != nil && deliver(ev) == Exit {
			b.Quit()
		}
	})
}

type wgoWindow struct {
	backend *WebviewGo
	id      WindowID

	mu      sync.Mutex
	title   string
	width   float64
	height  float64
	webview *wgoWebview
}

func (w *wgoWindow) view() webview.WebView {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.webview == nil {
		return nil
	}
	return w.webview.view
}

func (w *wgoWindow) ID() WindowID { return w.id }

func (w *wgoWindow) SetTitle(title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.title = title
	if w.webview != nil {
		w.webview.view.SetTitle(title)
	}
	return nil
}

func (w *wgoWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *wgoWindow) SetSize(width, height float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
	if w.webview != nil {
		w.webview.view.SetSize(int(width), int(height), webview.HintNone)
	}
	return nil
}

func (w *wgoWindow) Size() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *wgoWindow) SetMinSize(width, height float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.webview == nil {
		return ErrNotSupported
	}
	w.webview.view.SetSize(int(width), int(height), webview.HintMin)
	return nil
}

func (w *wgoWindow) SetMaxSize(width, height float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.webview == nil {
		return ErrNotSupported
	}
	w.webview.view.SetSize(int(width), int(height), webview.HintMax)
	return nil
}

func (w *wgoWindow) SetPosition(x, y float64) error  { return ErrNotSupported }
func (w *wgoWindow) Position() (float64, float64)    { return 0, 0 }
func (w *wgoWindow) SetVisible(visible bool) error   { return ErrNotSupported }
func (w *wgoWindow) Visible() bool                   { return true }
func (w *wgoWindow) SetResizable(r bool) error       { return ErrNotSupported }
func (w *wgoWindow) SetAlwaysOnTop(onTop bool) error { return ErrNotSupported }
func (w *wgoWindow) SetFullscreen(f bool) error      { return ErrNotSupported }
func (w *wgoWindow) Fullscreen() bool                { return false }
func (w *wgoWindow) SetMaximized(m bool) error       { return ErrNotSupported }
func (w *wgoWindow) Maximized() bool                 { return false }
func (w *wgoWindow) SetMinimized(m bool) error       { return ErrNotSupported }
func (w *wgoWindow) Minimized() bool                 { return false }
func (w *wgoWindow) Focus() error                    { return ErrNotSupported }
func (w *wgoWindow) Focused() bool                   { return true }
func (w *wgoWindow) ScaleFactor() float64            { return 1.0 }

func (w *wgoWindow) NewWebview(cfg WebviewConfig) (Webview, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.webview != nil {
		return nil, fmt.Errorf("platform: window %d already has a webview", w.id)
	}
	view := webview.New(cfg.Devtools)
	if view == nil {
		return nil, fmt.Errorf("webviewgo: native webview creation failed")
	}
	view.SetTitle(w.title)
	width, height := int(w.width), int(w.height)
	if width == 0 && height == 0 {
		width, height = 800, 600
	}
	view.SetSize(width, height, webview.HintNone)

	wv := &wgoWebview{id: uuid.NewString(), view: view, cfg: cfg}

	for _, script := range cfg.InitScripts {
		view.Init(script)
	}
	if cfg.OnMessage != nil {
		// window.ipc.postMessage bridges to this binding.
		if err := view.Bind("__webwindowPost", func(message string) {
			cfg.OnMessage(message)
		}); err != nil {
			log.Printf("webviewgo: ipc bind failed: %v", err)
		}
		view.Init(`window.ipc = { postMessage: function(m) { __webwindowPost(m); } };`)
	}
	if cfg.HTML != "" {
		view.SetHtml(cfg.HTML)
	} else if cfg.URL != "" {
		wv.load(cfg.URL)
	}
	w.webview = wv
	return wv, nil
}

func (w *wgoWindow) Destroy() error {
	w.mu.Lock()
	wv := w.webview
	w.webview = nil
	w.mu.Unlock()
	if wv != nil {
		wv.view.Terminate()
	}
	w.backend.emit(Destroyed{Window: w.id})
	return nil
}

type wgoWebview struct {
	id   string
	view webview.WebView
	cfg  WebviewConfig

	mu  sync.Mutex
	url string
}

func (wv *wgoWebview) ID() string { return wv.id }

// load performs the navigation, routing custom schemes through the
// registered resolver since the binding cannot intercept them natively.
func (wv *wgoWebview) load(url string) {
	if wv.cfg.ResolveScheme != nil {
		if resp, ok := wv.cfg.ResolveScheme(url); ok {
			wv.view.SetHtml(string(resp.Body))
			wv.mu.Lock()
			wv.url = url
			wv.mu.Unlock()
			return
		}
	}
	wv.view.Navigate(url)
	wv.mu.Lock()
	wv.url = url
	wv.mu.Unlock()
}

func (wv *wgoWebview) Navigate(url string) error {
	if wv.cfg.OnNavigate != nil && !wv.cfg.OnNavigate(url) {
		return nil
	}
	wv.load(url)
	return nil
}

func (wv *wgoWebview) LoadHTML(html string) error {
	wv.view.SetHtml(html)
	return nil
}

func (wv *wgoWebview) Eval(script string) error {
	wv.view.Eval(script)
	return nil
}

func (wv *wgoWebview) Reload() error {
	wv.mu.Lock()
	url := wv.url
	wv.mu.Unlock()
	if url == "" {
		return ErrNotSupported
	}
	wv.view.Navigate(url)
	return nil
}

func (wv *wgoWebview) SetZoom(factor float64) error {
	wv.view.Eval(fmt.Sprintf("document.body.style.zoom = %g;", factor))
	return nil
}

func (wv *wgoWebview) URL() string {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	return wv.url
}

func (wv *wgoWebview) OpenDevtools() error  { return ErrNotSupported }
func (wv *wgoWebview) CloseDevtools() error { return ErrNotSupported }

func (wv *wgoWebview) Destroy() error {
	wv.view.Terminate()
	return nil
}
