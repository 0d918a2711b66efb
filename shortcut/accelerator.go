package shortcut

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"golang.design/x/hotkey"
)

// Canonical modifier names after normalization. "cmdorctrl" resolves to
// the platform's primary modifier; aliases (control, option, command,
// meta, win) fold into these four.
var modAliases = map[string]string{
	"ctrl":      "ctrl",
	"control":   "ctrl",
	"shift":     "shift",
	"alt":       "alt",
	"option":    "alt",
	"super":     "super",
	"cmd":       "super",
	"command":   "super",
	"meta":      "super",
	"win":       "super",
	"windows":   "super",
	"cmdorctrl": "", // resolved per platform below
}

var modOrder = map[string]int{"ctrl": 0, "shift": 1, "alt": 2, "super": 3}

// normalizeAccelerator lowercases, resolves aliases, orders modifiers
// canonically, and validates the shape: at least one modifier plus
// exactly one key.
func normalizeAccelerator(accel string) (string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(accel)), "+")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q (need modifier+key)", ErrInvalid, accel)
	}
	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if _, ok := keyMap[keyPart]; !ok {
		return "", fmt.Errorf("%w: unknown key %q", ErrInvalid, keyPart)
	}

	seen := map[string]bool{}
	var mods []string
	for _, raw := range parts[:len(parts)-1] {
		name, ok := modAliases[strings.TrimSpace(raw)]
		if !ok {
			return "", fmt.Errorf("%w: unknown modifier %q", ErrInvalid, raw)
		}
		if name == "" { // cmdorctrl
			if runtime.GOOS == "darwin" {
				name = "super"
			} else {
				name = "ctrl"
			}
		}
		if !seen[name] {
			seen[name] = true
			mods = append(mods, name)
		}
	}
	sort.Slice(mods, func(i, j int) bool { return modOrder[mods[i]] < modOrder[mods[j]] })
	return strings.Join(append(mods, keyPart), "+"), nil
}

// parseAccelerator maps a normalized accelerator onto the OS hotkey
// types. The modifier table is platform-specific.
func parseAccelerator(accel string) ([]hotkey.Modifier, hotkey.Key, error) {
	norm, err := normalizeAccelerator(accel)
	if err != nil {
		return nil, 0, err
	}
	parts := strings.Split(norm, "+")
	key := keyMap[parts[len(parts)-1]]
	var mods []hotkey.Modifier
	for _, name := range parts[:len(parts)-1] {
		mod, ok := platformModifier(name)
		if !ok {
			return nil, 0, fmt.Errorf("%w: modifier %q not available on %s", ErrInvalid, name, runtime.GOOS)
		}
		mods = append(mods, mod)
	}
	return mods, key, nil
}

var keyMap = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"return": hotkey.KeyReturn,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"esc":    hotkey.KeyEscape,
	"delete": hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"a":      hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}

// Format renders a normalized accelerator for display, with platform
// modifier symbols on macOS and names elsewhere.
func Format(accel string) string {
	norm, err := normalizeAccelerator(accel)
	if err != nil {
		return accel
	}
	parts := strings.Split(norm, "+")
	keyDisplay := map[string]string{
		"space": "Space", "tab": "Tab", "return": "Return",
		"escape": "Esc", "delete": "Delete",
		"up": "↑", "down": "↓", "left": "←", "right": "→",
	}
	var out []string
	for _, p := range parts[:len(parts)-1] {
		out = append(out, displayModifier(p))
	}
	key := parts[len(parts)-1]
	if d, ok := keyDisplay[key]; ok {
		out = append(out, d)
	} else {
		out = append(out, strings.ToUpper(key))
	}
	if runtime.GOOS == "darwin" {
		return strings.Join(out, "")
	}
	return strings.Join(out, "+")
}

func displayModifier(name string) string {
	if runtime.GOOS == "darwin" {
		switch name {
		case "ctrl":
			return "⌃"
		case "shift":
			return "⇧"
		case "alt":
			return "⌥"
		case "super":
			return "⌘"
		}
	}
	switch name {
	case "ctrl":
		return "Ctrl"
	case "shift":
		return "Shift"
	case "alt":
		return "Alt"
	case "super":
		return "Super"
	}
	return name
}
