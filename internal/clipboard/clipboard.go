// Package clipboard moves annotation rows through the desktop clipboard as
// plain text.
package clipboard

import "errors"

// ErrUnavailable is returned when no clipboard can be reached.
var ErrUnavailable = errors.New("clipboard unavailable")

// System is the desktop clipboard.
type System struct{}

// Write replaces the clipboard contents with text.
func (System) Write(text string) error { return write(text) }

// Read returns the clipboard text. An empty clipboard is an error.
func (System) Read() (string, error) { return read() }
