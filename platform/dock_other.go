//go:build !darwin || !cgo

package platform

// Dock visibility is a macOS concept; elsewhere these report false so
// hosts can feature-detect instead of branching on GOOS.

func SetDockVisible(visible bool) bool { return false }

func HideApplication() bool { return false }

func ShowApplication() bool { return false }
