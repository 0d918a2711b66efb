package webwindow

import (
	"errors"
	"testing"
)

func TestWindowTitleAndSizeRoundTrip(t *testing.T) {
	ta := newTestApp(t)
	win, err := ta.app.CreateWindow(WithTitle("Settings"), WithSize(400, 300))
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if got := win.Title(); got != "Settings" {
		t.Errorf("Title = %q; want %q", got, "Settings")
	}
	if w, h := win.Size(); w != 400 || h != 300 {
		t.Errorf("Size = %gx%g; want 400x300", w, h)
	}

	if err := win.SetTitle("Preferences"); err != nil {
		t.Fatalf("SetTitle: %v", err)
	}
	if got := win.Title(); got != "Preferences" {
		t.Errorf("Title after SetTitle = %q; want %q", got, "Preferences")
	}
}

func TestCreateWindowRejectsNonPositiveSize(t *testing.T) {
	ta := newTestApp(t)
	ta.app.clearLastError()
	if _, err := ta.app.CreateWindow(WithSize(0, 300)); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("CreateWindow(0x300) error = %v; want ErrInvalidParameter", err)
	}
	if ta.app.LastError() == "" {
		t.Error("rejected create left no last error")
	}
}

func TestOperationsAfterDestroy(t *testing.T) {
	ta := newTestApp(t)
	win, err := ta.app.CreateWindow(WithTitle("Doomed"))
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	handle := win.Handle()
	if err := win.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	if err := win.SetTitle("x"); !errors.Is(err, ErrWindowDestroyed) {
		t.Errorf("SetTitle after Destroy = %v; want ErrWindowDestroyed", err)
	}
	if got := win.Title(); got != "" {
		t.Errorf("Title after Destroy = %q; want empty", got)
	}
	if win.Visible() {
		t.Error("Visible after Destroy = true")
	}
	if got := win.ScaleFactor(); got != 1.0 {
		t.Errorf("ScaleFactor after Destroy = %g; want 1.0", got)
	}
	if err := win.Destroy(); !errors.Is(err, ErrWindowDestroyed) {
		t.Errorf("second Destroy = %v; want ErrWindowDestroyed", err)
	}
	if ta.app.Window(handle) != nil {
		t.Error("handle resolves after Destroy")
	}
	if ta.app.WindowCount() != 0 {
		t.Errorf("WindowCount = %d; want 0", ta.app.WindowCount())
	}
}

func TestCallbackLastWriteWins(t *testing.T) {
	ta := newTestApp(t)
	win, err := ta.app.CreateWindow()
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	firstCalled, secondCalled := false, false
	win.OnResized(func(w *Window, width, height float64) { firstCalled = true })
	win.OnResized(func(w *Window, width, height float64) { secondCalled = true })

	ta.run()
	ta.stub.SimulateResize(win.id, 500, 500)
	ta.waitMessage(t, `"window-resized"`)
	ta.barrier(t)

	if firstCalled {
		t.Error("overwritten callback still fired")
	}
	if !secondCalled {
		t.Error("replacing callback never fired")
	}
	ta.app.Quit()
	_ = ta.waitExit(t)
}

func TestPanickingClosingCallbackAllowsClose(t *testing.T) {
	ta := newTestApp(t)
	win, err := ta.app.CreateWindow()
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	win.OnClosing(func(w *Window) bool { panic("host bug") })

	ta.run()
	ta.stub.SimulateCloseRequested(win.id)

	// Fail-open: the panic counts as consent, the last window closes,
	// and the loop exits.
	if err := ta.waitExit(t); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ta.app.WindowCount() != 0 {
		t.Errorf("WindowCount = %d; want 0", ta.app.WindowCount())
	}
}

func TestRequestCloseHonorsGate(t *testing.T) {
	ta := newTestApp(t)
	win, err := ta.app.CreateWindow()
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	win.OnClosing(func(w *Window) bool { return false })
	ta.run()

	win.RequestClose()
	ta.barrier(t)
	if ta.app.WindowCount() != 1 {
		t.Error("RequestClose bypassed the closing gate")
	}

	ta.app.InvokeSync(func() { win.OnClosing(nil) })
	win.RequestClose()
	if err := ta.waitExit(t); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ta.app.WindowCount() != 0 {
		t.Error("RequestClose with no gate did not close the window")
	}
}

func TestFocusEventCallback(t *testing.T) {
	ta := newTestApp(t)
	win, err := ta.app.CreateWindow()
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	var got []bool
	win.OnFocus(func(w *Window, focused bool) { got = append(got, focused) })

	ta.run()
	ta.stub.SimulateFocus(win.id, true)
	ta.waitMessage(t, `"isFocused":true`)
	ta.stub.SimulateFocus(win.id, false)
	ta.waitMessage(t, `"isFocused":false`)
	ta.barrier(t)

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("focus callback sequence = %v; want [true false]", got)
	}
	ta.app.Quit()
	_ = ta.waitExit(t)
}
