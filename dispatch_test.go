package webwindow

import (
	"sync"
	"testing"
	"time"
)

func TestInvokeRunsOnLoopGoroutine(t *testing.T) {
	ta := newTestApp(t)
	ta.run()
	defer func() { ta.app.Quit(); _ = ta.waitExit(t) }()

	ran := false
	if !ta.app.Invoke(func() { ran = true }) {
		t.Fatal("Invoke returned false on a live loop")
	}
	ta.barrier(t)
	if !ran {
		t.Error("invoked function never ran")
	}
}

func TestInvokeSerializesConcurrentCallers(t *testing.T) {
	ta := newTestApp(t)
	ta.run()
	defer func() { ta.app.Quit(); _ = ta.waitExit(t) }()

	// A plain int is safe only if every closure runs on one goroutine;
	// the race detector catches any overlap.
	counter := 0
	const goroutines, perGoroutine = 8, 25
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				if !ta.app.Invoke(func() { counter++ }) {
					t.Error("Invoke failed mid-test")
					return
				}
			}
		}()
	}
	wg.Wait()
	ta.barrier(t)

	got := 0
	ta.app.InvokeSync(func() { got = counter })
	if got != goroutines*perGoroutine {
		t.Errorf("counter = %d; want %d", got, goroutines*perGoroutine)
	}
}

func TestInvokeSyncCompletesBeforeReturning(t *testing.T) {
	ta := newTestApp(t)
	ta.run()
	defer func() { ta.app.Quit(); _ = ta.waitExit(t) }()

	sideEffect := false
	if !ta.app.InvokeSync(func() { sideEffect = true }) {
		t.Fatal("InvokeSync returned false on a live loop")
	}
	if !sideEffect {
		t.Error("InvokeSync returned before the function ran")
	}
}

func TestRequestExitStopsLoop(t *testing.T) {
	ta := newTestApp(t)
	ta.run()

	if !ta.app.Proxy().RequestExit() {
		t.Fatal("RequestExit returned false on a live loop")
	}
	ta.waitMessage(t, `"user-exit"`)
	if err := ta.waitExit(t); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ta.app.Running() {
		t.Error("Running() still true after RequestExit stopped the loop")
	}
}

func TestInvokeSyncUnblocksWhenLoopStops(t *testing.T) {
	ta := newTestApp(t)
	ta.run()

	// Park the loop inside a dispatched function so work queued behind
	// it is still pending when Quit lands.
	hold := make(chan struct{})
	entered := make(chan struct{})
	if !ta.app.Invoke(func() { close(entered); <-hold }) {
		t.Fatal("Invoke returned false on a live loop")
	}
	<-entered

	result := make(chan bool, 1)
	go func() {
		result <- ta.app.InvokeSync(func() {})
	}()
	time.Sleep(10 * time.Millisecond)

	ta.app.Quit()
	close(hold)
	if err := ta.waitExit(t); err != nil {
		t.Fatalf("Run: %v", err)
	}

	select {
	case ok := <-result:
		if ok {
			t.Error("InvokeSync reported success for work the loop never ran")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("InvokeSync still blocked after the loop stopped")
	}
	if ta.app.LastError() == "" {
		t.Error("abandoned InvokeSync left no last error")
	}
}

func TestInvokeAfterLoopExit(t *testing.T) {
	ta := newTestApp(t)
	ta.run()
	ta.app.Quit()
	if err := ta.waitExit(t); err != nil {
		t.Fatalf("Run: %v", err)
	}

	ta.app.clearLastError()
	if ta.app.Invoke(func() {}) {
		t.Error("Invoke succeeded after loop exit")
	}
	if ta.app.LastError() == "" {
		t.Error("failed Invoke left no last error")
	}
	if ta.app.InvokeSync(func() {}) {
		t.Error("InvokeSync succeeded after loop exit")
	}
}

func TestInvokeNilFunction(t *testing.T) {
	ta := newTestApp(t)
	ta.app.clearLastError()
	if ta.app.Invoke(nil) {
		t.Error("Invoke(nil) succeeded")
	}
	if ta.app.LastError() == "" {
		t.Error("Invoke(nil) left no last error")
	}
}

func TestInvokePanicContained(t *testing.T) {
	ta := newTestApp(t)
	ta.run()
	defer func() { ta.app.Quit(); _ = ta.waitExit(t) }()

	ta.app.clearLastError()
	if !ta.app.Invoke(func() { panic("host bug") }) {
		t.Fatal("Invoke returned false")
	}
	ta.barrier(t)
	if ta.app.LastError() == "" {
		t.Error("panic in dispatched function left no last error")
	}
	// The loop is still alive.
	if !ta.app.InvokeSync(func() {}) {
		t.Error("loop died after a dispatched panic")
	}
}
