//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"fmt"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// hasDisplay reports whether an X11 or Wayland session is reachable.
func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = fmt.Errorf("no DISPLAY or WAYLAND_DISPLAY: %w", ErrUnavailable)
			return
		}
		if err := clipboard.Init(); err != nil {
			initErr = fmt.Errorf("%v: %w", err, ErrUnavailable)
		}
	})
	return initErr
}

func write(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func read() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", fmt.Errorf("clipboard holds no text")
	}
	return string(data), nil
}
