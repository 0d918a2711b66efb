package bridge

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestScriptDoubleInitGuard(t *testing.T) {
	if !strings.Contains(Script, "__webwindowInitialized") {
		t.Fatal("script lacks the double-initialisation guard")
	}
	if !strings.Contains(Script, "if (window.__webwindowInitialized) { return; }") {
		t.Error("guard does not bail out before redefining window.webwindow")
	}
}

func TestScriptPostsThroughIPC(t *testing.T) {
	if !strings.Contains(Script, "window.ipc.postMessage") {
		t.Error("script must post through window.ipc.postMessage")
	}
}

func TestReceiveScriptEmbedsMessageLosslessly(t *testing.T) {
	cases := []struct {
		name    string
		message string
	}{
		{"plain", "hello"},
		{"quotes", `he said "hi" and left`},
		{"backslashes", `C:\Users\alice\file.txt`},
		{"newlines", "line one\nline two"},
		{"unicode", "héllo wörld — 日本語 ✓"},
		{"json payload", `{"responseId":7,"payload":{"ok":true}}`},
		{"script breakers", `</script><script>alert(1)</script>`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			script := ReceiveScript(tc.message)
			want, _ := json.Marshal(tc.message)
			if !strings.Contains(script, string(want)) {
				t.Errorf("script does not embed %q as a JSON literal:\n%s", tc.message, script)
			}
			// The embedded literal must round-trip to the original.
			start := strings.Index(script, string(want))
			var got string
			if err := json.Unmarshal([]byte(script[start:start+len(want)]), &got); err != nil {
				t.Fatalf("embedded literal does not parse: %v", err)
			}
			if got != tc.message {
				t.Errorf("round-trip = %q; want %q", got, tc.message)
			}
		})
	}
}

func TestDecodeRequest(t *testing.T) {
	req, ev, err := Decode(`{"id":42,"command":"readFile","payload":{"path":"/tmp/x"}}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ev != nil {
		t.Fatal("classified as event, want request")
	}
	if req.ID != 42 || req.Command != "readFile" {
		t.Errorf("req = %+v", req)
	}
	var payload struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(req.Payload, &payload); err != nil || payload.Path != "/tmp/x" {
		t.Errorf("payload = %s (err %v)", req.Payload, err)
	}
}

func TestDecodeEvent(t *testing.T) {
	req, ev, err := Decode(`{"event":"theme-changed","payload":"dark"}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if req != nil {
		t.Fatal("classified as request, want event")
	}
	if ev.Event != "theme-changed" || string(ev.Payload) != `"dark"` {
		t.Errorf("ev = %+v", ev)
	}
}

func TestDecodeRejectsNonEnvelopes(t *testing.T) {
	for _, raw := range []string{"not json", "{}", `{"payload":1}`, `[1,2,3]`} {
		if _, _, err := Decode(raw); err == nil {
			t.Errorf("Decode(%q) succeeded, want error", raw)
		}
	}
}

func TestRespondAndReject(t *testing.T) {
	ok, err := Respond(7, map[string]bool{"ok": true})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(ok, `responseId`) || !strings.Contains(ok, "__receive") {
		t.Errorf("Respond output missing envelope or receive call:\n%s", ok)
	}

	rej, err := Reject(7, `file "x" not found`)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if !strings.Contains(rej, `error`) {
		t.Errorf("Reject output missing error field:\n%s", rej)
	}
}

func TestEmitCarriesEventName(t *testing.T) {
	script, err := Emit("download-progress", 0.5)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !strings.Contains(script, "download-progress") {
		t.Errorf("Emit output missing event name:\n%s", script)
	}
}
