package webwindow

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// WindowState is the persisted geometry of one named window, saved as
// JSON so hosts can restore placement across launches.
type WindowState struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Maximized bool    `json:"maximized"`
}

// defaultState returns factory placement for windows never seen before.
func defaultState() WindowState {
	return WindowState{Width: 800, Height: 600}
}

// StateStore loads and saves window geometry, keyed by a host-chosen
// window name. Stored as one JSON file per app under the user config
// directory.
type StateStore struct {
	path string
}

// NewStateStore creates a StateStore for the given application name,
// under the platform's user config directory.
func NewStateStore(appName string) *StateStore {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return &StateStore{
		path: filepath.Join(dir, appName, "window-state.json"),
	}
}

// newStateStoreAt creates a StateStore with a custom path (tests only).
func newStateStoreAt(path string) *StateStore {
	return &StateStore{path: path}
}

// Load reads the named window's saved state. Returns defaults when the
// file doesn't exist or the window has no entry; a corrupt file logs
// the error and is reset.
func (s *StateStore) Load(name string) WindowState {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return defaultState()
	}
	if err != nil {
		log.Printf("state: read error: %v, using defaults", err)
		return defaultState()
	}
	var all map[string]WindowState
	if err := json.Unmarshal(data, &all); err != nil {
		log.Printf("state: parse error: %v, resetting", err)
		_ = s.writeAll(map[string]WindowState{})
		return defaultState()
	}
	st, ok := all[name]
	if !ok {
		return defaultState()
	}
	if st.Width <= 0 || st.Height <= 0 {
		d := defaultState()
		st.Width, st.Height = d.Width, d.Height
	}
	return st
}

// Save records the named window's state, preserving entries for other
// windows. The file is written atomically (temp file, then rename).
func (s *StateStore) Save(name string, st WindowState) error {
	all := map[string]WindowState{}
	if data, err := os.ReadFile(s.path); err == nil {
		if err := json.Unmarshal(data, &all); err != nil {
			log.Printf("state: parse error on save: %v, overwriting", err)
			all = map[string]WindowState{}
		}
	}
	all[name] = st
	return s.writeAll(all)
}

// Capture snapshots a live window into a WindowState.
func Capture(w *Window) WindowState {
	x, y := w.Position()
	width, height := w.Size()
	return WindowState{
		X: x, Y: y,
		Width: width, Height: height,
		Maximized: w.Maximized(),
	}
}

// Apply restores saved geometry onto a live window. Loop goroutine only.
func (st WindowState) Apply(w *Window) error {
	if err := w.SetSize(st.Width, st.Height); err != nil {
		return err
	}
	if err := w.SetPosition(st.X, st.Y); err != nil && err != ErrNotSupported {
		return err
	}
	if st.Maximized {
		return w.SetMaximized(true)
	}
	return nil
}

func (s *StateStore) writeAll(all map[string]WindowState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
