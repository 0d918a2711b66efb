package webwindow

import (
	"encoding/json"
	"testing"

	"github.com/trevwilson/webwindow/platform"
)

func TestSerializeEventRecords(t *testing.T) {
	cases := []struct {
		name  string
		event platform.Event
		want  string
	}{
		{
			"close requested",
			platform.CloseRequested{Window: 3},
			`{"type":"window-close-requested","window_id":3}`,
		},
		{
			"destroyed",
			platform.Destroyed{Window: 3},
			`{"type":"window-destroyed","window_id":3}`,
		},
		{
			"resized",
			platform.Resized{Window: 1, Width: 800, Height: 600},
			`{"type":"window-resized","window_id":1,"size":{"width":800,"height":600}}`,
		},
		{
			"fractional resize",
			platform.Resized{Window: 1, Width: 812.5, Height: 609.25},
			`{"type":"window-resized","window_id":1,"size":{"width":812.5,"height":609.25}}`,
		},
		{
			"moved",
			platform.Moved{Window: 2, X: 10, Y: -20},
			`{"type":"window-moved","window_id":2,"position":{"x":10,"y":-20}}`,
		},
		{
			"focused",
			platform.FocusChanged{Window: 4, Focused: true},
			`{"type":"window-focused","window_id":4,"isFocused":true}`,
		},
		{
			"scale factor",
			platform.ScaleFactorChanged{Window: 1, Scale: 2, Width: 1600, Height: 1200},
			`{"type":"window-scale-factor-changed","window_id":1,"scale_factor":2,"size":{"width":1600,"height":1200}}`,
		},
		{
			"modifiers",
			platform.ModifiersChanged{Window: 1, Modifiers: platform.Modifiers{Shift: true, Super: true}},
			`{"type":"window-modifiers-changed","window_id":1,"modifiers":{"shift":true,"control":false,"alt":false,"super_key":true}}`,
		},
		{
			"user event",
			platform.UserEvent{Payload: `{"kind":"ping"}`},
			`{"type":"user-event","payload":"{\"kind\":\"ping\"}"}`,
		},
		{
			"user exit",
			platform.ExitRequested{},
			`{"type":"user-exit"}`,
		},
		{
			"menu event",
			platform.MenuEvent{MenuID: "file-open"},
			`{"type":"menu-event","menu_id":"file-open"}`,
		},
		{
			"loop destroyed",
			platform.LoopDestroyed{},
			`{"type":"loop-destroyed"}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := serializeEvent(tc.event); got != tc.want {
				t.Errorf("serializeEvent = %s\nwant            %s", got, tc.want)
			}
		})
	}
}

func TestSerializeTrayEvent(t *testing.T) {
	got := serializeEvent(platform.TrayEvent{TrayID: "tray", Kind: "left-click", X: 10, Y: 20, HasPosition: true})
	var rec struct {
		Type      string `json:"type"`
		TrayID    string `json:"tray_id"`
		EventType string `json:"event_type"`
		Position  *struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"position"`
	}
	if err := json.Unmarshal([]byte(got), &rec); err != nil {
		t.Fatalf("record does not parse: %v", err)
	}
	if rec.Type != "tray-event" || rec.TrayID != "tray" || rec.EventType != "left-click" {
		t.Errorf("record = %s", got)
	}
	if rec.Position == nil || rec.Position.X != 10 || rec.Position.Y != 20 {
		t.Errorf("position = %+v", rec.Position)
	}

	// Without coordinates the key must be absent, not zeroed.
	got = serializeEvent(platform.TrayEvent{TrayID: "tray", Kind: "right-click"})
	var bare map[string]any
	if err := json.Unmarshal([]byte(got), &bare); err != nil {
		t.Fatalf("record does not parse: %v", err)
	}
	if _, present := bare["position"]; present {
		t.Errorf("position present without coordinates: %s", got)
	}
}

func TestSerializeUnknownEventFallsBackToRaw(t *testing.T) {
	got := serializeEvent(platform.Raw{Debug: "Reopen"})
	if got != `{"type":"raw","debug":"Reopen"}` {
		t.Errorf("raw record = %s", got)
	}
}

func TestShortcutMessageShape(t *testing.T) {
	got := shortcutMessage(12)
	var rec struct {
		Type string `json:"type"`
		ID   uint32 `json:"id"`
	}
	if err := json.Unmarshal([]byte(got), &rec); err != nil {
		t.Fatalf("record does not parse: %v", err)
	}
	if rec.Type != "global-shortcut" || rec.ID != 12 {
		t.Errorf("record = %s", got)
	}
}
