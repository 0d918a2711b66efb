// Package notify posts desktop notifications through the platform's
// notification center.
package notify

import (
	"log"

	"github.com/gen2brain/beeep"
)

// Options describes one notification. Icon is a path to an image file;
// empty uses the application icon.
type Options struct {
	Title string
	Body  string
	Icon  string
	Sound bool // play the platform alert sound
}

// Show posts a notification and reports whether the platform accepted
// it. Delivery beyond that point is up to the notification center.
func Show(opts Options) bool {
	if opts.Title == "" && opts.Body == "" {
		return false
	}
	var err error
	if opts.Sound {
		err = beeep.Alert(opts.Title, opts.Body, opts.Icon)
	} else {
		err = beeep.Notify(opts.Title, opts.Body, opts.Icon)
	}
	if err != nil {
		log.Printf("notify: %v", err)
		return false
	}
	return true
}
