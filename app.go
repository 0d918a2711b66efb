// Package webwindow is a desktop windowing and webview toolkit built
// around a single-threaded native event loop. An App owns the loop, a
// registry of windows keyed by generation-counted handles, per-window
// callback slots, and a custom-protocol table; every native event is
// also delivered to an optional pump callback as a tagged JSON record.
//
// Thread model: exactly one goroutine, the one that called New, owns
// the loop and is the only place window and webview objects may be
// mutated. The thread-safe entry points are Invoke, InvokeSync, the
// Proxy send operations and Window.SendMessage; everything else is
// loop-goroutine-only by contract, matching the affinity rules of the
// native toolkits underneath.
package webwindow

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/trevwilson/webwindow/platform"
	"github.com/trevwilson/webwindow/shortcut"
)

// ControlFlow steers the loop from the pump callback.
type ControlFlow = platform.ControlFlow

// Control-flow values returned by a pump callback.
const (
	Poll = platform.Poll
	Wait = platform.Wait
	Exit = platform.Exit
)

// PumpFunc receives every loop event serialized as a tagged JSON record
// and returns the desired control flow. It runs on the loop goroutine.
type PumpFunc func(message string) ControlFlow

// Loop states.
const (
	stateCreated int32 = iota
	stateRunning
	stateStopped
)

// App is one application instance: the event loop driver plus all
// process-scoped registries, instantiated explicitly rather than kept
// in package globals.
type App struct {
	backend platform.Backend

	// Loop-goroutine-only state.
	windows    map[platform.WindowID]*Window
	hadWindows bool
	pump       PumpFunc

	handles handleTable

	// IPC routing from webview IDs to window handles. Webview message
	// hooks may fire off the loop's direct control path, so this table
	// takes a read-write lock unlike the loop-confined windows map.
	ipcMu     sync.RWMutex
	ipcRoutes map[string]Handle

	protoMu   sync.RWMutex
	protocols map[string]ProtocolHandler
	protoSrv  *protocolServer

	shortcutOnce sync.Once
	shortcuts    *shortcut.Manager

	errMu   sync.Mutex
	lastErr string

	state           atomic.Int32
	loopDone        chan struct{}
	exitOnAllClosed bool
}

// Option configures an App.
type Option func(*App)

// WithBackend selects the platform backend. Defaults to the variant
// chosen at build time (cgo webview backend, or the stub without cgo).
func WithBackend(b platform.Backend) Option {
	return func(a *App) { a.backend = b }
}

// WithExitOnLastWindowClosed controls whether the loop stops once the
// last window is removed. Defaults to true.
func WithExitOnLastWindowClosed(exit bool) Option {
	return func(a *App) { a.exitOnAllClosed = exit }
}

// New creates an App and initialises its backend. Call from the main
// goroutine: New locks the calling goroutine to its OS thread, since
// the native loop must stay on the thread that created it.
func New(opts ...Option) (*App, error) {
	runtime.LockOSThread()
	a := &App{
		windows:         make(map[platform.WindowID]*Window),
		ipcRoutes:       make(map[string]Handle),
		protocols:       make(map[string]ProtocolHandler),
		loopDone:        make(chan struct{}),
		exitOnAllClosed: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.backend == nil {
		a.backend = platform.Default()
	}
	if err := a.backend.Init(); err != nil {
		return nil, fmt.Errorf("webwindow: backend init: %w", err)
	}
	return a, nil
}

// Backend exposes the selected platform variant, mainly so hosts can
// feature-detect or reach stub test helpers.
func (a *App) Backend() platform.Backend { return a.backend }

// Shortcuts returns the app's global-shortcut manager, creating it on
// first use. Registered triggers are drained by the loop and delivered
// to the pump as global-shortcut records.
func (a *App) Shortcuts() *shortcut.Manager {
	a.shortcutOnce.Do(func() {
		a.shortcuts = shortcut.NewManager(shortcut.WithNotify(func() {
			// Drain on the loop goroutine so triggers surface promptly
			// even when no native event is flowing.
			_ = a.backend.Dispatch(func() {
				if a.drainShortcuts() {
					a.backend.Quit()
				}
			})
		}))
	})
	return a.shortcuts
}

// Run pumps the event loop until exit is requested, the last window
// closes, or the pump returns Exit. The loop is consumed: a second Run
// on the same App fails with ErrLoopConsumed. Must be called on the
// goroutine that called New. A nil pump is allowed; lifecycle handling
// still runs.
func (a *App) Run(pump PumpFunc) error {
	if !a.state.CompareAndSwap(stateCreated, stateRunning) {
		a.setLastError("run: event loop already consumed")
		return ErrLoopConsumed
	}
	a.pump = pump
	err := a.backend.Run(a.processEvent)
	a.state.Store(stateStopped)
	// Unblocks InvokeSync callers whose queued work the loop never
	// consumed.
	close(a.loopDone)
	if err != nil {
		a.setLastError("run: %v", err)
		return fmt.Errorf("%w: %v", ErrNativeFailure, err)
	}
	return nil
}

// Quit requests loop exit. Safe from any goroutine; queued cross-thread
// work not yet consumed is dropped.
func (a *App) Quit() {
	a.backend.Quit()
}

// Running reports whether the loop is actively pumping.
func (a *App) Running() bool { return a.state.Load() == stateRunning }

// Teardown releases backend resources. It must not be called while the
// loop is running.
func (a *App) Teardown() error {
	if a.state.Load() == stateRunning {
		a.setLastError("teardown: event loop still running")
		return ErrLoopNotRunning
	}
	if a.shortcuts != nil {
		a.shortcuts.UnregisterAll()
	}
	if a.protoSrv != nil {
		a.protoSrv.close()
	}
	return a.backend.Teardown()
}

// processEvent is the single seam between the native loop and the rest
// of the toolkit: serialize for the pump, then apply lifecycle
// bookkeeping, then drain shortcut triggers. Runs on the loop goroutine.
func (a *App) processEvent(ev platform.Event) ControlFlow {
	flow := Wait
	if a.pump != nil {
		flow = a.safePump(serializeEvent(ev))
	}

	switch e := ev.(type) {
	case platform.CloseRequested:
		a.handleCloseRequested(e.Window)
	case platform.Destroyed:
		a.removeEntry(e.Window)
	case platform.Resized:
		if w := a.windows[e.Window]; w != nil {
			w.callbacks.callResized(w, e.Width, e.Height)
		}
	case platform.Moved:
		if w := a.windows[e.Window]; w != nil {
			w.callbacks.callMoved(w, e.X, e.Y)
		}
	case platform.FocusChanged:
		if w := a.windows[e.Window]; w != nil {
			w.callbacks.callFocus(w, e.Focused)
		}
	case platform.ExitRequested:
		flow = Exit
	}

	if a.drainShortcuts() {
		flow = Exit
	}
	return flow
}

// drainShortcuts empties the pending shortcut queue onto the pump.
// Reports whether any pump call asked for exit.
func (a *App) drainShortcuts() (exit bool) {
	if a.shortcuts == nil {
		return false
	}
	for {
		id, ok := a.shortcuts.TryNext()
		if !ok {
			return exit
		}
		if a.pump != nil && a.safePump(shortcutMessage(id)) == Exit {
			exit = true
		}
	}
}

// safePump invokes the host pump under a recover guard; a panicking
// pump is reported through the last-error cell and treated as Wait.
func (a *App) safePump(message string) (flow ControlFlow) {
	flow = Wait
	defer func() {
		if r := recover(); r != nil {
			a.setLastError("pump callback panicked: %v", r)
		}
	}()
	flow = a.pump(message)
	return flow
}

// handleCloseRequested runs the close transition. The closing callback
// may deny the close; an unset callback allows it.
func (a *App) handleCloseRequested(id platform.WindowID) {
	w := a.windows[id]
	if w == nil {
		return
	}
	if w.callbacks.callClosing(w) {
		a.removeWindow(w)
	}
}

// removeWindow tears a window down synchronously: entry removal, handle
// invalidation, callback release, native destruction. The backend's
// Destroyed event for the window arrives later and is a no-op here.
func (a *App) removeWindow(w *Window) {
	if !w.destroyed.CompareAndSwap(false, true) {
		return
	}
	delete(a.windows, w.id)
	a.handles.release(w.handle)
	if w.webview != nil {
		a.ipcMu.Lock()
		delete(a.ipcRoutes, w.webview.id)
		a.ipcMu.Unlock()
	}
	w.callbacks.clear()
	if err := w.native.Destroy(); err != nil && err != platform.ErrWindowGone {
		a.setLastError("window %d: destroy: %v", w.id, err)
	}
	if a.exitOnAllClosed && a.hadWindows && len(a.windows) == 0 {
		a.backend.Quit()
	}
}

// removeEntry drops registry state for a window the backend destroyed
// on its own (as opposed to through removeWindow).
func (a *App) removeEntry(id platform.WindowID) {
	if w := a.windows[id]; w != nil {
		a.removeWindow(w)
	}
}

// WindowCount reports the number of live windows. Safe from any
// goroutine.
func (a *App) WindowCount() int { return a.handles.count() }

// Window resolves a handle to its window, or nil when the handle is
// zero, stale, or already destroyed. Safe from any goroutine.
func (a *App) Window(h Handle) *Window { return a.handles.lookup(h) }
