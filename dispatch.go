package webwindow

import (
	"github.com/trevwilson/webwindow/platform"
)

// Invoke queues fn for execution on the loop goroutine. Safe from any
// goroutine; submissions from a single goroutine run in FIFO order.
// Returns false, and records a last error, when the loop has stopped.
func (a *App) Invoke(fn func()) bool {
	if fn == nil {
		a.setLastError("invoke: nil function")
		return false
	}
	if err := a.backend.Dispatch(func() {
		defer func() {
			if r := recover(); r != nil {
				a.setLastError("invoke: panic in dispatched function: %v", r)
			}
		}()
		fn()
	}); err != nil {
		a.setLastError("invoke failed, loop may not be running: %v", err)
		return false
	}
	return true
}

// InvokeSync runs fn on the loop goroutine and blocks the caller until
// it has finished. Calling it from the loop goroutine itself deadlocks;
// that is the caller's responsibility. Returns false without blocking
// when the work cannot be queued, and false (after unblocking) when the
// loop stops before the queued work is consumed.
func (a *App) InvokeSync(fn func()) bool {
	if fn == nil {
		a.setLastError("invoke sync: nil function")
		return false
	}
	done := make(chan struct{})
	ok := a.Invoke(func() {
		defer close(done)
		fn()
	})
	if !ok {
		return false
	}
	select {
	case <-done:
		return true
	case <-a.loopDone:
	}
	// The loop may have consumed the work in its final moments.
	select {
	case <-done:
		return true
	default:
		a.setLastError("invoke sync: loop stopped before the queued work ran")
		return false
	}
}

// Proxy sends application-defined events into the loop from any
// goroutine. Each send wakes the loop and surfaces on the pump as a
// tagged record; sends after loop stop return false and set the last
// error. Any number of proxies may exist per App.
type Proxy struct {
	app *App
}

// Proxy returns a sender bound to this App's loop. Safe from any
// goroutine.
func (a *App) Proxy() *Proxy { return &Proxy{app: a} }

// send routes a platform event through the dispatcher so it is handled
// on the loop goroutine by the same path native events take. An Exit
// flow coming back from that handling stops the backend, the way a
// native delivery would.
func (p *Proxy) send(op string, ev platform.Event) bool {
	a := p.app
	if err := a.backend.Dispatch(func() {
		if a.processEvent(ev) == Exit {
			a.backend.Quit()
		}
	}); err != nil {
		a.setLastError("%s: %v", op, err)
		return false
	}
	return true
}

// SendEvent delivers an opaque payload to the pump as a user-event
// record.
func (p *Proxy) SendEvent(payload string) bool {
	return p.send("send event", platform.UserEvent{Payload: payload})
}

// SendMenuEvent reports a menu activation by item identifier.
func (p *Proxy) SendMenuEvent(menuID string) bool {
	return p.send("send menu event", platform.MenuEvent{MenuID: menuID})
}

// SendTrayEvent reports tray-icon interaction.
func (p *Proxy) SendTrayEvent(trayID, kind string) bool {
	return p.send("send tray event", platform.TrayEvent{TrayID: trayID, Kind: kind})
}

// SendTrayEventAt is SendTrayEvent with a cursor position attached.
func (p *Proxy) SendTrayEventAt(trayID, kind string, x, y float64) bool {
	return p.send("send tray event", platform.TrayEvent{
		TrayID: trayID, Kind: kind, X: x, Y: y, HasPosition: true,
	})
}

// RequestExit asks the loop to stop. Unlike App.Quit this flows through
// the event stream, so the pump sees a user-exit record first.
func (p *Proxy) RequestExit() bool {
	return p.send("request exit", platform.ExitRequested{})
}
