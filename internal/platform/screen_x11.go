//go:build linux || freebsd || openbsd || netbsd || dragonfly

package platform

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

// ScreenSize returns the size of the primary monitor, or of the whole X
// screen when RandR cannot name a primary output.
func ScreenSize() (image.Point, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return image.Point{}, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return image.Point{}, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return image.Point{}, fmt.Errorf("xproto screen unavailable")
	}
	whole := image.Pt(int(screen.WidthInPixels), int(screen.HeightInPixels))

	if err := randr.Init(conn); err != nil {
		return whole, nil
	}
	primary, err := randr.GetOutputPrimary(conn, screen.Root).Reply()
	if err != nil || primary.Output == 0 {
		return whole, nil
	}
	info, err := randr.GetOutputInfo(conn, primary.Output, 0).Reply()
	if err != nil || info.Crtc == 0 {
		return whole, nil
	}
	crtc, err := randr.GetCrtcInfo(conn, info.Crtc, 0).Reply()
	if err != nil || crtc.Width == 0 || crtc.Height == 0 {
		return whole, nil
	}
	return image.Pt(int(crtc.Width), int(crtc.Height)), nil
}
