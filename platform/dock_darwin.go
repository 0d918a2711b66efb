//go:build darwin && cgo

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit
#import <AppKit/AppKit.h>

// setDockVisible toggles between the Regular activation policy (Dock
// icon shown) and Accessory (no Dock icon, no Task Switcher entry).
// Safe to call only after the Cocoa run loop is running.
void setDockVisible(bool visible) {
    if ([NSApp isRunning]) {
        [NSApp setActivationPolicy:visible
            ? NSApplicationActivationPolicyRegular
            : NSApplicationActivationPolicyAccessory];
    }
}

void hideApplication() {
    if ([NSApp isRunning]) {
        [NSApp hide:nil];
    }
}

void showApplication() {
    if ([NSApp isRunning]) {
        [NSApp unhide:nil];
        [NSApp activateIgnoringOtherApps:YES];
    }
}
*/
import "C"

import "log"

// SetDockVisible shows or hides the app's Dock icon at runtime. No-op if
// called before the Cocoa run loop is pumping (e.g. in tests).
func SetDockVisible(visible bool) bool {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("platform: SetDockVisible skipped (no run loop): %v", r)
		}
	}()
	C.setDockVisible(C.bool(visible))
	return true
}

// HideApplication hides every window of the application.
func HideApplication() bool {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("platform: HideApplication skipped (no run loop): %v", r)
		}
	}()
	C.hideApplication()
	return true
}

// ShowApplication unhides the application and brings it frontmost.
func ShowApplication() bool {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("platform: ShowApplication skipped (no run loop): %v", r)
		}
	}()
	C.showApplication()
	return true
}
