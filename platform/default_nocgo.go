//go:build !cgo

package platform

// Default returns the backend variant selected at build time: without
// cgo only the in-memory stub is available.
func Default() Backend { return NewStub() }
