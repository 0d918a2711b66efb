package webwindow

import (
	"errors"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	xclipboard "golang.design/x/clipboard"
)

// clipboardBackend abstracts the two clipboard strategies so tests can
// swap them.
type clipboardBackend interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// Clipboard writes and reads system clipboard text. The primary path is
// the native clipboard binding; when that is unavailable (headless
// Linux, missing X11 libs) it falls back to the platform's command-line
// tools.
type Clipboard struct {
	backend clipboardBackend
}

// NewClipboard returns a production-ready Clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{backend: &realClipboard{}}
}

// newClipboardWithBackend wires in a custom backend (tests only).
func newClipboardWithBackend(b clipboardBackend) *Clipboard {
	return &Clipboard{backend: b}
}

// WriteText places text on the system clipboard.
func (c *Clipboard) WriteText(text string) error {
	return c.backend.WriteText(text)
}

// ReadText returns the clipboard's current text content.
func (c *Clipboard) ReadText() (string, error) {
	return c.backend.ReadText()
}

type realClipboard struct {
	initOnce sync.Once
	initErr  error
}

// init initialises the native binding once; failure switches every call
// to the command-line fallback.
func (r *realClipboard) init() error {
	r.initOnce.Do(func() {
		r.initErr = xclipboard.Init()
		if r.initErr != nil {
			log.Printf("clipboard: native binding unavailable (%v), using command-line tools", r.initErr)
		}
	})
	return r.initErr
}

func (r *realClipboard) WriteText(text string) error {
	if r.init() == nil {
		xclipboard.Write(xclipboard.FmtText, []byte(text))
		return nil
	}
	return writeViaCommand(text)
}

func (r *realClipboard) ReadText() (string, error) {
	if r.init() == nil {
		return string(xclipboard.Read(xclipboard.FmtText)), nil
	}
	return readViaCommand()
}

func writeViaCommand(text string) error {
	name, args := writeCommand()
	if name == "" {
		return errors.New("clipboard: no write tool for " + runtime.GOOS)
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("clipboard: %s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func readViaCommand() (string, error) {
	name, args := readCommand()
	if name == "" {
		return "", errors.New("clipboard: no read tool for " + runtime.GOOS)
	}
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("clipboard: %s: %w", name, err)
	}
	return string(out), nil
}

func writeCommand() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "pbcopy", nil
	case "windows":
		return "clip", nil
	default:
		if _, err := exec.LookPath("wl-copy"); err == nil {
			return "wl-copy", nil
		}
		return "xclip", []string{"-selection", "clipboard"}
	}
}

func readCommand() (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "pbpaste", nil
	case "windows":
		return "powershell", []string{"-command", "Get-Clipboard"}
	default:
		if _, err := exec.LookPath("wl-paste"); err == nil {
			return "wl-paste", []string{"--no-newline"}
		}
		return "xclip", []string{"-selection", "clipboard", "-o"}
	}
}
