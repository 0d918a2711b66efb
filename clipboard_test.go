package webwindow

import (
	"errors"
	"testing"
)

// mockClipboard stands in for the system clipboard.
type mockClipboard struct {
	content  string
	writeErr error
	readErr  error
}

func (m *mockClipboard) WriteText(text string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.content = text
	return nil
}

func (m *mockClipboard) ReadText() (string, error) {
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.content, nil
}

func TestClipboardRoundTrip(t *testing.T) {
	mock := &mockClipboard{}
	clip := newClipboardWithBackend(mock)

	if err := clip.WriteText("héllo\nworld"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	got, err := clip.ReadText()
	if err != nil {
		t.Fatalf("ReadText: %v", err)
	}
	if got != "héllo\nworld" {
		t.Errorf("ReadText = %q; want %q", got, "héllo\nworld")
	}
}

func TestClipboardErrorsPropagate(t *testing.T) {
	boom := errors.New("no display")
	clip := newClipboardWithBackend(&mockClipboard{writeErr: boom, readErr: boom})

	if err := clip.WriteText("x"); !errors.Is(err, boom) {
		t.Errorf("WriteText error = %v; want %v", err, boom)
	}
	if _, err := clip.ReadText(); !errors.Is(err, boom) {
		t.Errorf("ReadText error = %v; want %v", err, boom)
	}
}
