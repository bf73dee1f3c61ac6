// Package clipboard publishes pad exports on the system clipboard.
//
// On X11 the clipboard is served by the owning process, so each write
// returns a channel that is closed once another application takes the
// selection over. Short-lived callers should wait on it before exiting.
package clipboard

import "errors"

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

// MIMEPortable is offered alongside plain text when a portable document is
// copied.
const MIMEPortable = "application/json"
