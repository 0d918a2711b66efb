package webwindow

import (
	"encoding/json"
	"fmt"

	"github.com/trevwilson/webwindow/platform"
)

// Tagged-record payload shapes shared by several event variants. Sizes
// and positions are logical units, float64 end to end, so values an
// event carries survive serialization without rounding drift.
type eventSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type eventPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type eventModifiers struct {
	Shift    bool `json:"shift"`
	Control  bool `json:"control"`
	Alt      bool `json:"alt"`
	SuperKey bool `json:"super_key"`
}

// serializeEvent converts a native event into its tagged JSON record.
// Pure and total: every variant has a mapping, anything unknown falls
// back to the "raw" tag with a debug rendering. The type discriminator
// vocabulary is part of the host contract; do not rename values.
func serializeEvent(ev platform.Event) string {
	var value any
	switch e := ev.(type) {
	case platform.CloseRequested:
		value = struct {
			Type     string `json:"type"`
			WindowID uint64 `json:"window_id"`
		}{"window-close-requested", uint64(e.Window)}
	case platform.Destroyed:
		value = struct {
			Type     string `json:"type"`
			WindowID uint64 `json:"window_id"`
		}{"window-destroyed", uint64(e.Window)}
	case platform.Resized:
		value = struct {
			Type     string    `json:"type"`
			WindowID uint64    `json:"window_id"`
			Size     eventSize `json:"size"`
		}{"window-resized", uint64(e.Window), eventSize{e.Width, e.Height}}
	case platform.Moved:
		value = struct {
			Type     string        `json:"type"`
			WindowID uint64        `json:"window_id"`
			Position eventPosition `json:"position"`
		}{"window-moved", uint64(e.Window), eventPosition{e.X, e.Y}}
	case platform.FocusChanged:
		value = struct {
			Type      string `json:"type"`
			WindowID  uint64 `json:"window_id"`
			IsFocused bool   `json:"isFocused"`
		}{"window-focused", uint64(e.Window), e.Focused}
	case platform.ScaleFactorChanged:
		value = struct {
			Type        string    `json:"type"`
			WindowID    uint64    `json:"window_id"`
			ScaleFactor float64   `json:"scale_factor"`
			Size        eventSize `json:"size"`
		}{"window-scale-factor-changed", uint64(e.Window), e.Scale, eventSize{e.Width, e.Height}}
	case platform.ModifiersChanged:
		value = struct {
			Type      string         `json:"type"`
			WindowID  uint64         `json:"window_id"`
			Modifiers eventModifiers `json:"modifiers"`
		}{"window-modifiers-changed", uint64(e.Window), eventModifiers{
			Shift:    e.Modifiers.Shift,
			Control:  e.Modifiers.Control,
			Alt:      e.Modifiers.Alt,
			SuperKey: e.Modifiers.Super,
		}}
	case platform.UserEvent:
		value = struct {
			Type    string `json:"type"`
			Payload string `json:"payload"`
		}{"user-event", e.Payload}
	case platform.ExitRequested:
		value = struct {
			Type string `json:"type"`
		}{"user-exit"}
	case platform.MenuEvent:
		value = struct {
			Type   string `json:"type"`
			MenuID string `json:"menu_id"`
		}{"menu-event", e.MenuID}
	case platform.TrayEvent:
		value = serializeTrayEvent(e)
	case platform.LoopDestroyed:
		value = struct {
			Type string `json:"type"`
		}{"loop-destroyed"}
	case platform.Raw:
		value = struct {
			Type  string `json:"type"`
			Debug string `json:"debug"`
		}{"raw", e.Debug}
	default:
		value = struct {
			Type  string `json:"type"`
			Debug string `json:"debug"`
		}{"raw", fmt.Sprintf("%#v", ev)}
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func serializeTrayEvent(e platform.TrayEvent) any {
	payload := map[string]any{
		"type":       "tray-event",
		"tray_id":    e.TrayID,
		"event_type": e.Kind,
	}
	if e.HasPosition {
		payload["position"] = eventPosition{e.X, e.Y}
	}
	return payload
}

// shortcutMessage is the independent record emitted for each global
// shortcut trigger drained alongside the main pump.
func shortcutMessage(id uint32) string {
	return fmt.Sprintf(`{"type":"global-shortcut","id":%d}`, id)
}
