// Command webwindow-demo opens a window with an embedded page served
// over a custom scheme, wires the JS bridge both ways, registers a
// global shortcut, and exercises clipboard and notification support.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/trevwilson/webwindow"
	"github.com/trevwilson/webwindow/bridge"
	"github.com/trevwilson/webwindow/notify"
	"github.com/trevwilson/webwindow/shortcut"
)

const page = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>webwindow demo</title></head>
<body>
<h1>webwindow demo</h1>
<button id="ping">ping host</button>
<pre id="out"></pre>
<script>
var out = document.getElementById('out');
window.webwindow.listen('tick', function (n) {
	out.textContent = 'tick ' + n + '\n' + out.textContent;
});
document.getElementById('ping').addEventListener('click', function () {
	window.webwindow.invoke('echo', { value: 'hello from the page' })
		.then(function (reply) { out.textContent = JSON.stringify(reply) + '\n' + out.textContent; })
		.catch(function (err) { out.textContent = 'error: ' + err + '\n' + out.textContent; });
});
</script>
</body>
</html>`

func main() {
	app, err := webwindow.New()
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if err := app.RegisterProtocol("demo", func(req webwindow.ProtocolRequest) webwindow.ProtocolResponse {
		if req.Path == "/" || req.Path == "/index.html" {
			return webwindow.ProtocolResponse{MimeType: "text/html", Body: []byte(page)}
		}
		return webwindow.ProtocolResponse{Status: http.StatusNotFound}
	}); err != nil {
		log.Fatalf("fatal: register protocol: %v", err)
	}

	win, err := app.CreateWindow(
		webwindow.WithTitle("webwindow demo"),
		webwindow.WithSize(640, 480),
		webwindow.WithMinSize(320, 240),
	)
	if err != nil {
		log.Fatalf("fatal: create window: %v", err)
	}

	wv, err := win.AttachWebview(webwindow.WithHTML(page))
	if err != nil {
		log.Fatalf("fatal: attach webview: %v", err)
	}

	// Bridge: answer invoke('echo', ...) and ignore everything else.
	win.OnMessage(func(w *webwindow.Window, message string) {
		req, ev, err := bridge.Decode(message)
		if err != nil {
			log.Printf("demo: raw message: %s", message)
			return
		}
		if ev != nil {
			log.Printf("demo: page event %s: %s", ev.Event, ev.Payload)
			return
		}
		switch req.Command {
		case "echo":
			var payload any
			_ = json.Unmarshal(req.Payload, &payload)
			script, err := bridge.Respond(req.ID, map[string]any{"echo": payload})
			if err == nil {
				_ = wv.Eval(script)
			}
		default:
			if script, err := bridge.Reject(req.ID, "unknown command "+req.Command); err == nil {
				_ = wv.Eval(script)
			}
		}
	})

	win.OnClosing(func(w *webwindow.Window) bool {
		log.Printf("demo: window closing")
		return true
	})

	// Global shortcut: notify and push an event into the page.
	ticks := 0
	shortcutID, err := app.Shortcuts().Register("ctrl+shift+d")
	if err != nil {
		log.Printf("demo: shortcut unavailable: %v", err)
	} else {
		log.Printf("demo: registered %s", shortcut.Format("ctrl+shift+d"))
	}

	clip := webwindow.NewClipboard()

	err = app.Run(func(message string) webwindow.ControlFlow {
		var ev struct {
			Type string `json:"type"`
			ID   uint32 `json:"id"`
		}
		if err := json.Unmarshal([]byte(message), &ev); err == nil {
			switch {
			case ev.Type == "global-shortcut" && ev.ID == shortcutID:
				ticks++
				if script, err := bridge.Emit("tick", ticks); err == nil {
					_ = wv.Eval(script)
				}
				if err := clip.WriteText("webwindow tick"); err != nil {
					log.Printf("demo: clipboard: %v", err)
				}
				notify.Show(notify.Options{Title: "webwindow", Body: "shortcut pressed"})
			case strings.HasPrefix(ev.Type, "window-"):
				log.Printf("demo: %s", message)
			}
		}
		return webwindow.Wait
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := app.Teardown(); err != nil {
		log.Printf("demo: teardown: %v", err)
	}
}
