package platform

import (
	"sync"
	"testing"
	"time"
)

func TestStubCreateWindowDefaults(t *testing.T) {
	b := NewStub()
	w, err := b.CreateWindow(WindowConfig{Title: "Test"})
	if err != nil {
		t.Fatalf("CreateWindow() error: %v", err)
	}
	if got := w.Title(); got != "Test" {
		t.Errorf("Title() = %q, want %q", got, "Test")
	}
	width, height := w.Size()
	if width != 800 || height != 600 {
		t.Errorf("Size() = %gx%g, want default 800x600", width, height)
	}
}

func TestStubRunConsumedOnce(t *testing.T) {
	b := NewStub()
	go func() {
		time.Sleep(10 * time.Millisecond)
		b.Quit()
	}()
	if err := b.Run(func(Event) ControlFlow { return Wait }); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if err := b.Run(func(Event) ControlFlow { return Wait }); err != ErrLoopConsumed {
		t.Errorf("second Run() error = %v, want ErrLoopConsumed", err)
	}
}

func TestStubDeliversInjectedEvents(t *testing.T) {
	b := NewStub()
	w, _ := b.CreateWindow(WindowConfig{Title: "Test"})

	var got []Event
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(func(ev Event) ControlFlow {
			got = append(got, ev)
			if len(got) == 2 {
				return Exit
			}
			return Wait
		})
	}()

	b.SimulateResize(w.ID(), 1024, 768)
	b.SimulateMove(w.ID(), 10, 20)
	<-done

	// The loop always signs off with LoopDestroyed after Exit.
	if len(got) != 3 {
		t.Fatalf("delivered %d events, want 3", len(got))
	}
	r, ok := got[0].(Resized)
	if !ok || r.Width != 1024 || r.Height != 768 {
		t.Errorf("event[0] = %#v, want Resized{1024,768}", got[0])
	}
	m, ok := got[1].(Moved)
	if !ok || m.X != 10 || m.Y != 20 {
		t.Errorf("event[1] = %#v, want Moved{10,20}", got[1])
	}
	if _, ok := got[2].(LoopDestroyed); !ok {
		t.Errorf("event[2] = %#v, want LoopDestroyed", got[2])
	}
}

func TestStubDispatchRunsOnLoopGoroutine(t *testing.T) {
	b := NewStub()
	ran := make(chan struct{})
	go b.Run(func(Event) ControlFlow { return Wait })
	defer b.Quit()

	if err := b.Dispatch(func() { close(ran) }); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("dispatched work never ran")
	}
}

func TestStubDispatchAfterStop(t *testing.T) {
	b := NewStub()
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(func(Event) ControlFlow { return Wait })
	}()
	b.Quit()
	<-done

	if err := b.Dispatch(func() {}); err != ErrLoopStopped {
		t.Errorf("Dispatch() after stop = %v, want ErrLoopStopped", err)
	}
}

func TestStubWindowDestroyEmitsEventAndInvalidates(t *testing.T) {
	b := NewStub()
	w, _ := b.CreateWindow(WindowConfig{Title: "Test"})

	var destroyed bool
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(func(ev Event) ControlFlow {
			if _, ok := ev.(Destroyed); ok {
				mu.Lock()
				destroyed = true
				mu.Unlock()
				return Exit
			}
			return Wait
		})
	}()

	if err := w.Destroy(); err != nil {
		t.Fatalf("Destroy() error: %v", err)
	}
	<-done

	mu.Lock()
	defer mu.Unlock()
	if !destroyed {
		t.Error("Destroyed event was not delivered")
	}
	if err := w.SetTitle("late"); err != ErrWindowGone {
		t.Errorf("SetTitle() after destroy = %v, want ErrWindowGone", err)
	}
	if b.WindowCount() != 0 {
		t.Errorf("WindowCount() = %d, want 0", b.WindowCount())
	}
}

func TestStubWebviewNavigationGate(t *testing.T) {
	b := NewStub()
	w, _ := b.CreateWindow(WindowConfig{Title: "Test"})

	wv, err := w.NewWebview(WebviewConfig{
		URL: "https://example.com/",
		OnNavigate: func(url string) bool {
			return url != "https://blocked.example/"
		},
	})
	if err != nil {
		t.Fatalf("NewWebview() error: %v", err)
	}

	if err := wv.Navigate("https://blocked.example/"); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	if got := wv.URL(); got != "https://example.com/" {
		t.Errorf("URL() after blocked navigation = %q, want initial URL", got)
	}

	if err := wv.Navigate("https://ok.example/"); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	if got := wv.URL(); got != "https://ok.example/" {
		t.Errorf("URL() = %q, want %q", got, "https://ok.example/")
	}
}

func TestStubWebviewCustomScheme(t *testing.T) {
	b := NewStub()
	w, _ := b.CreateWindow(WindowConfig{Title: "Test"})

	wv, err := w.NewWebview(WebviewConfig{
		ResolveScheme: func(url string) (SchemeResponse, bool) {
			if url == "app://index.html" {
				return SchemeResponse{MimeType: "text/html", Body: []byte("<h1>hi</h1>")}, true
			}
			return SchemeResponse{}, false
		},
	})
	if err != nil {
		t.Fatalf("NewWebview() error: %v", err)
	}
	if err := wv.Navigate("app://index.html"); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	sw := wv.(*StubWebview)
	if got := sw.HTML(); got != "<h1>hi</h1>" {
		t.Errorf("HTML() = %q, want resolved body", got)
	}
}

func TestStubOneWebviewPerWindow(t *testing.T) {
	b := NewStub()
	w, _ := b.CreateWindow(WindowConfig{})
	if _, err := w.NewWebview(WebviewConfig{}); err != nil {
		t.Fatalf("first NewWebview() error: %v", err)
	}
	if _, err := w.NewWebview(WebviewConfig{}); err == nil {
		t.Error("second NewWebview() succeeded, want error")
	}
}
