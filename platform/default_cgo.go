//go:build cgo

package platform

// Default returns the backend variant selected at build time: the cgo
// webview backend when cgo is available.
func Default() Backend { return NewWebviewGo() }
