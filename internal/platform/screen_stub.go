//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package platform

import (
	"errors"
	"image"
)

// ScreenSize is not available without X11.
func ScreenSize() (image.Point, error) {
	return image.Point{}, errors.New("screen size unavailable on this platform")
}
