package webwindow

import (
	"runtime"
	"sync"
)

// Version is the toolkit release version.
const Version = "0.3.0"

// LibraryName identifies the toolkit in user-agent strings and logs.
const LibraryName = "webwindow"

// EngineName reports the browser engine the current platform embeds.
// Computed once; the answer cannot change within a process.
var EngineName = sync.OnceValue(func() string {
	switch runtime.GOOS {
	case "darwin":
		return "WKWebView"
	case "windows":
		return "WebView2"
	default:
		return "WebKitGTK"
	}
})
