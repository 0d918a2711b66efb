package webwindow

import (
	"errors"
	"fmt"
	"log"
)

// Sentinel errors for the failure taxonomy. Callers test with errors.Is;
// the string form of the most recent failure is also kept in the App's
// last-error cell for hosts that only look at boolean results.
var (
	ErrInvalidHandle    = errors.New("webwindow: invalid or stale handle")
	ErrInvalidParameter = errors.New("webwindow: invalid parameter")
	ErrNativeFailure    = errors.New("webwindow: native operation failed")
	ErrLoopConsumed     = errors.New("webwindow: event loop already consumed")
	ErrLoopNotRunning   = errors.New("webwindow: event loop not running")
	ErrNotSupported     = errors.New("webwindow: not supported on this platform")
	ErrWindowDestroyed  = errors.New("webwindow: window destroyed")
)

// setLastError records a failure message, overwriting the previous one.
// Each failing call overwrites; the cell never queues.
func (a *App) setLastError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("webwindow: %s", msg)
	a.errMu.Lock()
	a.lastErr = msg
	a.errMu.Unlock()
}

// LastError returns the message of the most recent failing call, or ""
// if none has failed since the last read-and-clear. Valid only until the
// next failing call. Safe from any goroutine.
func (a *App) LastError() string {
	a.errMu.Lock()
	defer a.errMu.Unlock()
	return a.lastErr
}

// clearLastError empties the cell; used by tests and hosts that want a
// clean slate before a probing call.
func (a *App) clearLastError() {
	a.errMu.Lock()
	a.lastErr = ""
	a.errMu.Unlock()
}

// guardErr runs fn, converting a panic into an error plus a last-error
// entry. Every public entry point that executes host callbacks or
// backend code runs under one of the guard helpers: a panic must never
// cross the toolkit boundary.
func (a *App) guardErr(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.setLastError("%s: panic: %v", op, r)
			err = fmt.Errorf("%w: %s: %v", ErrNativeFailure, op, r)
		}
	}()
	return fn()
}
