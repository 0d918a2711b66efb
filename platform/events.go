package platform

// WindowID identifies a native window within its backend. IDs are never
// reused for the lifetime of a backend instance.
type WindowID uint64

// Modifiers is the state of the keyboard modifier keys at the time an
// event was generated.
type Modifiers struct {
	Shift   bool
	Control bool
	Alt     bool
	Super   bool
}

// Event is a native platform event delivered by a Backend. The concrete
// types below form a closed set; anything a backend cannot express maps
// to Raw.
type Event interface {
	isEvent()
}

// CloseRequested reports that the user asked a window to close (close
// button, Cmd+W, etc.). The window is not destroyed until the toolkit
// approves the close.
type CloseRequested struct {
	Window WindowID
}

// Destroyed reports that a native window has been torn down.
type Destroyed struct {
	Window WindowID
}

// Resized carries the new inner size of a window in logical units.
type Resized struct {
	Window WindowID
	Width  float64
	Height float64
}

// Moved carries the new outer position of a window in logical units.
type Moved struct {
	Window WindowID
	X      float64
	Y      float64
}

// FocusChanged reports a window gaining or losing keyboard focus.
type FocusChanged struct {
	Window  WindowID
	Focused bool
}

// ScaleFactorChanged reports a DPI change, with the new inner size
// already converted to logical units.
type ScaleFactorChanged struct {
	Window WindowID
	Scale  float64
	Width  float64
	Height float64
}

// ModifiersChanged reports a change in modifier key state for a window.
type ModifiersChanged struct {
	Window    WindowID
	Modifiers Modifiers
}

// UserEvent is a payload injected through an event-loop proxy from an
// arbitrary goroutine.
type UserEvent struct {
	Payload string
}

// ExitRequested is injected by a proxy to ask the loop to stop.
type ExitRequested struct{}

// MenuEvent reports a click on a menu item, identified by the item ID
// given at construction.
type MenuEvent struct {
	MenuID string
}

// TrayEvent reports interaction with a tray icon.
type TrayEvent struct {
	TrayID      string
	Kind        string // "click", "double-click", "enter", "move", "leave"
	X, Y        float64
	HasPosition bool
}

// LoopDestroyed is the final event delivered before Run returns.
type LoopDestroyed struct{}

// Raw wraps an event the backend has no structured mapping for. Debug is
// a human-readable rendering, not a stable format.
type Raw struct {
	Debug string
}

func (CloseRequested) isEvent()     {}
func (Destroyed) isEvent()          {}
func (Resized) isEvent()            {}
func (Moved) isEvent()              {}
func (FocusChanged) isEvent()       {}
func (ScaleFactorChanged) isEvent() {}
func (ModifiersChanged) isEvent()   {}
func (UserEvent) isEvent()          {}
func (ExitRequested) isEvent()      {}
func (MenuEvent) isEvent()          {}
func (TrayEvent) isEvent()          {}
func (LoopDestroyed) isEvent()      {}
func (Raw) isEvent()                {}
