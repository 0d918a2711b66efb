// Package dialog shows native file and message dialogs. Calls block
// until the user dismisses the dialog; run them from the event-loop
// goroutine so they parent correctly.
package dialog

import (
	"errors"
	"log"

	sqdialog "github.com/sqweek/dialog"
)

// FileFilter narrows a file dialog to matching extensions, given
// without the leading dot ("png", "jpg").
type FileFilter struct {
	Name       string
	Extensions []string
}

// FileOptions configures open and save dialogs.
type FileOptions struct {
	Title    string
	StartDir string
	Filename string // preselected name, save dialogs only
	Filters  []FileFilter
}

// OpenFile shows a file-open dialog. ok is false when the user cancels.
func OpenFile(opts FileOptions) (path string, ok bool, err error) {
	b := sqdialog.File()
	applyFileOptions(b, opts)
	path, err = b.Load()
	return finish(path, err)
}

// SaveFile shows a file-save dialog. ok is false when the user cancels.
func SaveFile(opts FileOptions) (path string, ok bool, err error) {
	b := sqdialog.File()
	applyFileOptions(b, opts)
	path, err = b.Save()
	return finish(path, err)
}

// PickFolder shows a directory chooser. ok is false on cancel.
func PickFolder(title, startDir string) (path string, ok bool, err error) {
	b := sqdialog.Directory()
	if title != "" {
		b = b.Title(title)
	}
	if startDir != "" {
		b = b.SetStartDir(startDir)
	}
	path, err = b.Browse()
	return finish(path, err)
}

// Message shows an informational dialog with a single OK button.
func Message(title, text string) {
	sqdialog.Message("%s", text).Title(title).Info()
}

// Error shows an error dialog with a single OK button.
func Error(title, text string) {
	sqdialog.Message("%s", text).Title(title).Error()
}

// Confirm shows a yes/no dialog and reports the choice.
func Confirm(title, text string) bool {
	return sqdialog.Message("%s", text).Title(title).YesNo()
}

func applyFileOptions(b *sqdialog.FileBuilder, opts FileOptions) {
	if opts.Title != "" {
		b = b.Title(opts.Title)
	}
	if opts.StartDir != "" {
		b = b.SetStartDir(opts.StartDir)
	}
	if opts.Filename != "" {
		b = b.SetStartFile(opts.Filename)
	}
	for _, f := range opts.Filters {
		b = b.Filter(f.Name, f.Extensions...)
	}
}

// finish folds the library's cancel sentinel into the (path, ok) shape.
func finish(path string, err error) (string, bool, error) {
	if err == nil {
		return path, true, nil
	}
	if errors.Is(err, sqdialog.ErrCancelled) {
		return "", false, nil
	}
	log.Printf("dialog: %v", err)
	return "", false, err
}
