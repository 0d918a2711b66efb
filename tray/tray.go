// Package tray puts an icon with a menu in the system status area and
// reports interactions back to the owning event loop as menu and tray
// events.
package tray

import (
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/getlantern/systray"
)

// ErrAlreadyRunning is returned by Start when a tray is already live;
// the status-area integration is one icon per process.
var ErrAlreadyRunning = errors.New("tray: already running")

// EventSink receives tray interactions. The event-loop proxy satisfies
// this, so clicks surface on the pump alongside native window events.
type EventSink interface {
	SendMenuEvent(menuID string) bool
	SendTrayEvent(trayID, kind string) bool
}

// Item is one menu entry. A Separator ignores every other field.
type Item struct {
	ID        string
	Title     string
	Tooltip   string
	Checkable bool
	Checked   bool
	Disabled  bool
	Separator bool
}

// Config describes the tray icon and its menu.
type Config struct {
	ID      string // identifier used in tray events; "tray" when empty
	Tooltip string
	Title   string // text next to the icon, where the platform shows one
	Icon    []byte // PNG bytes; template-rendered on macOS
	Items   []Item
}

// Tray is one status-area icon. Create with Start.
type Tray struct {
	cfg     Config
	sink    EventSink
	running atomic.Bool
	stopped atomic.Bool

	mu    sync.Mutex
	items map[string]*systray.MenuItem
	done  chan struct{}
}

var processTray atomic.Bool

// Start launches the tray icon on its own goroutine and wires clicks
// into sink. It must be called only once the event loop is pumping; the
// status-area APIs deadlock when the platform run loop is not yet
// alive. One tray per process.
func Start(cfg Config, sink EventSink) (*Tray, error) {
	if sink == nil {
		return nil, errors.New("tray: nil event sink")
	}
	if !processTray.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	if cfg.ID == "" {
		cfg.ID = "tray"
	}
	t := &Tray{
		cfg:   cfg,
		sink:  sink,
		items: make(map[string]*systray.MenuItem),
		done:  make(chan struct{}),
	}
	go systray.Run(t.onReady, t.onExit)
	return t, nil
}

func (t *Tray) onReady() {
	t.running.Store(true)
	if len(t.cfg.Icon) > 0 {
		systray.SetTemplateIcon(t.cfg.Icon, t.cfg.Icon)
	}
	if t.cfg.Title != "" {
		systray.SetTitle(t.cfg.Title)
	}
	if t.cfg.Tooltip != "" {
		systray.SetTooltip(t.cfg.Tooltip)
	}

	for _, it := range t.cfg.Items {
		if it.Separator {
			systray.AddSeparator()
			continue
		}
		var mi *systray.MenuItem
		if it.Checkable {
			mi = systray.AddMenuItemCheckbox(it.Title, it.Tooltip, it.Checked)
		} else {
			mi = systray.AddMenuItem(it.Title, it.Tooltip)
		}
		if it.Disabled {
			mi.Disable()
		}
		t.mu.Lock()
		t.items[it.ID] = mi
		t.mu.Unlock()
		go t.pumpClicks(it.ID, mi)
	}
	if !t.sink.SendTrayEvent(t.cfg.ID, "ready") {
		log.Printf("tray: ready event dropped")
	}
}

// pumpClicks forwards one item's clicks until the tray stops. Checkable
// items toggle before the event goes out, so hosts read the new state.
func (t *Tray) pumpClicks(id string, mi *systray.MenuItem) {
	for {
		select {
		case <-t.done:
			return
		case _, ok := <-mi.ClickedCh:
			if !ok {
				return
			}
			if mi.Checked() {
				mi.Uncheck()
			} else if t.isCheckable(id) {
				mi.Check()
			}
			if !t.sink.SendMenuEvent(id) {
				log.Printf("tray: click on %q dropped, loop not running", id)
			}
		}
	}
}

func (t *Tray) isCheckable(id string) bool {
	for _, it := range t.cfg.Items {
		if it.ID == id {
			return it.Checkable
		}
	}
	return false
}

func (t *Tray) onExit() {
	t.running.Store(false)
	close(t.done)
	processTray.Store(false)
}

// Running reports whether the icon is live in the status area.
func (t *Tray) Running() bool { return t.running.Load() }

// SetTooltip updates the hover text.
func (t *Tray) SetTooltip(tooltip string) {
	if t.running.Load() {
		systray.SetTooltip(tooltip)
	}
}

// SetTitle updates the text shown next to the icon.
func (t *Tray) SetTitle(title string) {
	if t.running.Load() {
		systray.SetTitle(title)
	}
}

// SetIcon replaces the icon image.
func (t *Tray) SetIcon(icon []byte) {
	if t.running.Load() && len(icon) > 0 {
		systray.SetTemplateIcon(icon, icon)
	}
}

// SetItemChecked sets a checkable item's state.
func (t *Tray) SetItemChecked(id string, checked bool) {
	t.mu.Lock()
	mi := t.items[id]
	t.mu.Unlock()
	if mi == nil {
		return
	}
	if checked {
		mi.Check()
	} else {
		mi.Uncheck()
	}
}

// SetItemEnabled enables or disables a menu item.
func (t *Tray) SetItemEnabled(id string, enabled bool) {
	t.mu.Lock()
	mi := t.items[id]
	t.mu.Unlock()
	if mi == nil {
		return
	}
	if enabled {
		mi.Enable()
	} else {
		mi.Disable()
	}
}

// Stop removes the icon. Safe to call more than once.
func (t *Tray) Stop() {
	if t.stopped.CompareAndSwap(false, true) {
		systray.Quit()
	}
}
