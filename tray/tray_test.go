package tray

import (
	"testing"
	"time"

	"github.com/getlantern/systray"
)

// mockSink records forwarded events without an event loop behind it.
type mockSink struct {
	menu chan string
	tray chan string
}

func newMockSink() *mockSink {
	return &mockSink{menu: make(chan string, 8), tray: make(chan string, 8)}
}

func (s *mockSink) SendMenuEvent(menuID string) bool {
	s.menu <- menuID
	return true
}

func (s *mockSink) SendTrayEvent(trayID, kind string) bool {
	s.tray <- trayID + ":" + kind
	return true
}

func TestStartRejectsNilSink(t *testing.T) {
	if _, err := Start(Config{}, nil); err == nil {
		t.Fatal("Start(nil sink) succeeded")
	}
}

func TestPumpClicksForwardsMenuEvents(t *testing.T) {
	sink := newMockSink()
	tr := &Tray{
		cfg:   Config{ID: "tray", Items: []Item{{ID: "show", Title: "Show"}}},
		sink:  sink,
		items: map[string]*systray.MenuItem{},
		done:  make(chan struct{}),
	}
	defer close(tr.done)

	mi := &systray.MenuItem{ClickedCh: make(chan struct{}, 1)}
	go tr.pumpClicks("show", mi)

	mi.ClickedCh <- struct{}{}
	select {
	case id := <-sink.menu:
		if id != "show" {
			t.Errorf("menu event id = %q; want %q", id, "show")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("click never reached the sink")
	}
}

func TestIsCheckable(t *testing.T) {
	tr := &Tray{cfg: Config{Items: []Item{
		{ID: "toggle", Title: "Toggle", Checkable: true},
		{ID: "quit", Title: "Quit"},
	}}}
	if !tr.isCheckable("toggle") {
		t.Error("isCheckable(toggle) = false")
	}
	if tr.isCheckable("quit") {
		t.Error("isCheckable(quit) = true")
	}
	if tr.isCheckable("missing") {
		t.Error("isCheckable(missing) = true")
	}
}
