package platform

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// ErrLoopStopped is returned by Dispatch once the stub loop has exited.
var ErrLoopStopped = errors.New("platform: event loop stopped")

// ErrLoopConsumed is returned when Run is called a second time.
var ErrLoopConsumed = errors.New("platform: event loop already consumed")

// Stub is the pure-Go backend. It keeps all window state in memory and
// lets tests inject synthetic native events, which makes every loop and
// lifecycle test runnable without cgo or a display server.
type Stub struct {
	mu      sync.Mutex
	windows map[WindowID]*StubWindow
	nextID  uint64

	events   chan Event
	dispatch chan func()
	quit     chan struct{}
	quitOnce sync.Once

	ran     atomic.Bool
	stopped atomic.Bool
}

// NewStub creates a stub backend.
func NewStub() *Stub {
	return &Stub{
		windows:  make(map[WindowID]*StubWindow),
		events:   make(chan Event, 64),
		dispatch: make(chan func(), 64),
		quit:     make(chan struct{}),
	}
}

func (b *Stub) Name() string { return "stub" }

func (b *Stub) Init() error { return nil }

func (b *Stub) CreateWindow(cfg WindowConfig) (Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	w := &StubWindow{
		backend: b,
		id:      WindowID(b.nextID),
		title:   cfg.Title,
		width:   cfg.Width,
		height:  cfg.Height,
		x:       cfg.X,
		y:       cfg.Y,
		visible: cfg.Visible,
		scale:   1.0,
	}
	if w.width == 0 && w.height == 0 {
		w.width, w.height = 800, 600
	}
	b.windows[w.id] = w
	return w, nil
}

// Run pumps injected events and dispatched work until deliver returns
// Exit or Quit is called. Poll and Wait are treated identically: the
// stub has no OS loop to spin.
func (b *Stub) Run(deliver func(Event) ControlFlow) error {
	if !b.ran.CompareAndSwap(false, true) {
		return ErrLoopConsumed
	}
	defer func() {
		b.stopped.Store(true)
		deliver(LoopDestroyed{})
	}()
	for {
		// Quit takes priority over queued work and events; dispatches
		// not yet consumed are dropped, per the Quit contract.
		select {
		case <-b.quit:
			return nil
		default:
		}
		select {
		case fn := <-b.dispatch:
			fn()
		case ev := <-b.events:
			if deliver(ev) == Exit {
				return nil
			}
		case <-b.quit:
			return nil
		}
	}
}

func (b *Stub) Dispatch(fn func()) error {
	if b.stopped.Load() {
		return ErrLoopStopped
	}
	select {
	case b.dispatch <- fn:
		return nil
	case <-b.quit:
		return ErrLoopStopped
	}
}

func (b *Stub) Quit() {
	b.quitOnce.Do(func() { close(b.quit) })
}

func (b *Stub) Teardown() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows = make(map[WindowID]*StubWindow)
	return nil
}

// Emit injects an arbitrary synthetic event. Safe from any goroutine.
func (b *Stub) Emit(ev Event) {
	select {
	case b.events <- ev:
	case <-b.quit:
	}
}

// SimulateCloseRequested injects a close request for a window, as if the
// user clicked its close button.
func (b *Stub) SimulateCloseRequested(id WindowID) {
	b.Emit(CloseRequested{Window: id})
}

// SimulateResize updates the stored size and injects the matching event.
func (b *Stub) SimulateResize(id WindowID, width, height float64) {
	b.mu.Lock()
	if w, ok := b.windows[id]; ok {
		w.mu.Lock()
		w.width, w.height = width, height
		w.mu.Unlock()
	}
	b.mu.Unlock()
	b.Emit(Resized{Window: id, Width: width, Height: height})
}

// SimulateMove updates the stored position and injects the matching event.
func (b *Stub) SimulateMove(id WindowID, x, y float64) {
	b.mu.Lock()
	if w, ok := b.windows[id]; ok {
		w.mu.Lock()
		w.x, w.y = x, y
		w.mu.Unlock()
	}
	b.mu.Unlock()
	b.Emit(Moved{Window: id, X: x, Y: y})
}

// SimulateFocus updates focus state and injects the matching event.
func (b *Stub) SimulateFocus(id WindowID, focused bool) {
	b.mu.Lock()
	if w, ok := b.windows[id]; ok {
		w.mu.Lock()
		w.focused = focused
		w.mu.Unlock()
	}
	b.mu.Unlock()
	b.Emit(FocusChanged{Window: id, Focused: focused})
}

// WindowCount reports how many stub windows are alive.
func (b *Stub) WindowCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.windows)
}

// StubWindow is an in-memory window. State is mutex-guarded so tests can
// inspect it from the test goroutine while the loop mutates it.
type StubWindow struct {
	backend *Stub
	id      WindowID

	mu        sync.Mutex
	title     string
	width     float64
	height    float64
	minW      float64
	minH      float64
	maxW      float64
	maxH      float64
	x, y      float64
	visible   bool
	resizable bool
	onTop     bool
	full      bool
	maximized bool
	minimized bool
	focused   bool
	scale     float64
	destroyed bool
	webview   *StubWebview
}

func (w *StubWindow) ID() WindowID { return w.id }

func (w *StubWindow) guard() error {
	if w.destroyed {
		return ErrWindowGone
	}
	return nil
}

func (w *StubWindow) SetTitle(title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.title = title
	return nil
}

func (w *StubWindow) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *StubWindow) SetSize(width, height float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.width, w.height = width, height
	return nil
}

func (w *StubWindow) Size() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *StubWindow) SetMinSize(width, height float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.minW, w.minH = width, height
	return nil
}

func (w *StubWindow) SetMaxSize(width, height float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.maxW, w.maxH = width, height
	return nil
}

func (w *StubWindow) SetPosition(x, y float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.x, w.y = x, y
	return nil
}

func (w *StubWindow) Position() (float64, float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.x, w.y
}

func (w *StubWindow) SetVisible(visible bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.visible = visible
	return nil
}

func (w *StubWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

func (w *StubWindow) SetResizable(resizable bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.resizable = resizable
	return nil
}

func (w *StubWindow) SetAlwaysOnTop(onTop bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.onTop = onTop
	return nil
}

func (w *StubWindow) SetFullscreen(fullscreen bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.full = fullscreen
	return nil
}

func (w *StubWindow) Fullscreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.full
}

func (w *StubWindow) SetMaximized(maximized bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.maximized = maximized
	return nil
}

func (w *StubWindow) Maximized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.maximized
}

func (w *StubWindow) SetMinimized(minimized bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.minimized = minimized
	return nil
}

func (w *StubWindow) Minimized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized
}

func (w *StubWindow) Focus() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return err
	}
	w.focused = true
	return nil
}

func (w *StubWindow) Focused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

func (w *StubWindow) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *StubWindow) NewWebview(cfg WebviewConfig) (Webview, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(); err != nil {
		return nil, err
	}
	if w.webview != nil {
		return nil, fmt.Errorf("platform: window %d already has a webview", w.id)
	}
	wv := &StubWebview{
		id:  uuid.NewString(),
		cfg: cfg,
	}
	if cfg.URL != "" {
		wv.loadLocked(cfg.URL)
	} else if cfg.HTML != "" {
		wv.html = cfg.HTML
	}
	w.webview = wv
	return wv, nil
}

func (w *StubWindow) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return ErrWindowGone
	}
	w.destroyed = true
	w.webview = nil
	backend, id := w.backend, w.id
	w.mu.Unlock()

	backend.mu.Lock()
	delete(backend.windows, id)
	backend.mu.Unlock()
	backend.Emit(Destroyed{Window: id})
	return nil
}

// StubWebview records everything a real webview would forward to its
// engine, letting tests assert on navigation, script evaluation and IPC.
type StubWebview struct {
	id  string
	cfg WebviewConfig

	mu          sync.Mutex
	url         string
	html        string
	zoom        float64
	devtools    bool
	Evaluated   []string // scripts passed to Eval, in order
	Navigations []string // every URL that passed the navigation gate
	destroyed   bool
}

func (wv *StubWebview) ID() string { return wv.id }

// loadLocked applies a navigation without the gate; wv.mu must be held
// or the webview not yet published.
func (wv *StubWebview) loadLocked(url string) {
	if wv.cfg.ResolveScheme != nil {
		if resp, ok := wv.cfg.ResolveScheme(url); ok {
			wv.html = string(resp.Body)
		}
	}
	wv.url = url
	wv.Navigations = append(wv.Navigations, url)
}

func (wv *StubWebview) Navigate(url string) error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	if wv.destroyed {
		return ErrWindowGone
	}
	if wv.cfg.OnNavigate != nil && !wv.cfg.OnNavigate(url) {
		return nil // cancelled by the navigation gate
	}
	wv.loadLocked(url)
	return nil
}

func (wv *StubWebview) LoadHTML(html string) error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	if wv.destroyed {
		return ErrWindowGone
	}
	wv.html = html
	return nil
}

func (wv *StubWebview) Eval(script string) error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	if wv.destroyed {
		return ErrWindowGone
	}
	wv.Evaluated = append(wv.Evaluated, script)
	return nil
}

func (wv *StubWebview) Reload() error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	if wv.destroyed {
		return ErrWindowGone
	}
	return nil
}

func (wv *StubWebview) SetZoom(factor float64) error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	if wv.destroyed {
		return ErrWindowGone
	}
	wv.zoom = factor
	return nil
}

func (wv *StubWebview) URL() string {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	return wv.url
}

func (wv *StubWebview) OpenDevtools() error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	wv.devtools = true
	return nil
}

func (wv *StubWebview) CloseDevtools() error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	wv.devtools = false
	return nil
}

func (wv *StubWebview) Destroy() error {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	wv.destroyed = true
	return nil
}

// HTML returns the current document content (tests only).
func (wv *StubWebview) HTML() string {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	return wv.html
}

// InitScripts returns the scripts configured at construction (tests
// only).
func (wv *StubWebview) InitScripts() []string {
	return append([]string(nil), wv.cfg.InitScripts...)
}

// Scripts returns a copy of everything passed to Eval (tests only).
func (wv *StubWebview) Scripts() []string {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	return append([]string(nil), wv.Evaluated...)
}

// EmitMessage simulates page content posting a message over the IPC
// channel.
func (wv *StubWebview) EmitMessage(message string) {
	wv.mu.Lock()
	onMessage := wv.cfg.OnMessage
	wv.mu.Unlock()
	if onMessage != nil {
		onMessage(message)
	}
}
