// Package bridge defines the JavaScript side of the host/page channel
// and the JSON envelopes flowing across it. The injected script exposes
// window.webwindow with invoke (ID-correlated request/response),
// listen/unlisten, and emit; the host side encodes and decodes the
// matching envelopes.
package bridge

import "encoding/json"

// Script is injected into every webview before page scripts run. It is
// idempotent: a second evaluation (for example after the host re-runs
// init scripts on navigation) leaves the first installation in place.
const Script = `(function () {
	if (window.__webwindowInitialized) { return; }
	window.__webwindowInitialized = true;

	var nextId = 1;
	var pending = {};
	var listeners = {};

	function post(obj) {
		window.ipc.postMessage(JSON.stringify(obj));
	}

	window.webwindow = {
		invoke: function (command, payload) {
			return new Promise(function (resolve, reject) {
				var id = nextId++;
				pending[id] = { resolve: resolve, reject: reject };
				post({ id: id, command: command, payload: payload === undefined ? null : payload });
			});
		},

		listen: function (event, handler) {
			(listeners[event] = listeners[event] || []).push(handler);
			return function () {
				var hs = listeners[event] || [];
				var i = hs.indexOf(handler);
				if (i >= 0) { hs.splice(i, 1); }
			};
		},

		emit: function (event, payload) {
			post({ event: event, payload: payload === undefined ? null : payload });
		},

		__receive: function (msg) {
			if (msg && msg.responseId !== undefined) {
				var p = pending[msg.responseId];
				if (!p) { return; }
				delete pending[msg.responseId];
				if (msg.error) { p.reject(new Error(msg.error)); }
				else { p.resolve(msg.payload); }
				return;
			}
			if (msg && msg.event) {
				var hs = listeners[msg.event] || [];
				for (var i = 0; i < hs.length; i++) {
					try { hs[i](msg.payload); } catch (e) { console.error(e); }
				}
			}
		}
	};
})();`

// ReceiveScript wraps a host-originated message in a call to the page's
// receive entry point. The message is embedded as a JSON string literal
// so quotes, newlines, and non-ASCII text survive the eval boundary
// untouched; the page side parses it as JSON when possible and hands
// the raw string to __receive otherwise.
func ReceiveScript(message string) string {
	quoted, err := json.Marshal(message)
	if err != nil {
		// A Go string always marshals; kept for the signature's sake.
		return ""
	}
	return `(function (m) {
	var v; try { v = JSON.parse(m); } catch (e) { v = m; }
	if (window.webwindow) { window.webwindow.__receive(v); }
})(` + string(quoted) + `);`
}
