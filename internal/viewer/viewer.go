// Package viewer shows a session in a shiny window and feeds it the
// window's mouse and keyboard events.
package viewer

import (
	"errors"
	"image"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/mgnigh98/VisionLabel/internal/input"
	"github.com/mgnigh98/VisionLabel/internal/platform"
	"github.com/mgnigh98/VisionLabel/internal/render"
	"github.com/mgnigh98/VisionLabel/internal/session"
)

// DefaultSize is used when the screen size cannot be queried.
var DefaultSize = image.Pt(1280, 800)

// Viewer owns the window for one session.
type Viewer struct {
	Session  *session.Session
	Pipeline *render.Pipeline
	Title    string
	Log      logrus.FieldLogger
}

// InitialSize returns the primary screen size, or DefaultSize.
func InitialSize(log logrus.FieldLogger) image.Point {
	sz, err := platform.ScreenSize()
	if err != nil || sz.X <= 0 || sz.Y <= 0 {
		if log != nil {
			log.WithError(err).Debug("screen size unavailable, using default")
		}
		return DefaultSize
	}
	return sz
}

// Run blocks until the window is closed or the user quits.
func (v *Viewer) Run(sz image.Point) error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		runErr = v.loop(s, sz)
	})
	return runErr
}

func (v *Viewer) log() logrus.FieldLogger {
	if v.Log == nil {
		return logrus.StandardLogger()
	}
	return v.Log
}

func (v *Viewer) loop(s screen.Screen, sz image.Point) error {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: sz.X, Height: sz.Y, Title: v.Title})
	if err != nil {
		return err
	}
	defer w.Release()

	var t translator
	v.Session.Resize(sz)
	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return nil
			}
		case size.Event:
			sz = image.Pt(e.WidthPx, e.HeightPx)
			v.Session.Resize(sz)
			w.Send(paint.Event{})
		case paint.Event:
			if err := v.paint(s, w, sz); err != nil {
				v.log().WithError(err).Warn("paint")
			}
		case mouse.Event:
			if ev, ok := t.mouse(e); ok {
				if quit := v.dispatch(w, ev); quit {
					return nil
				}
			}
		case key.Event:
			if ev, ok := t.key(e); ok {
				if quit := v.dispatch(w, ev); quit {
					return nil
				}
			}
		case error:
			v.log().WithError(e).Error("window")
		}
	}
}

func (v *Viewer) dispatch(w screen.Window, ev input.Event) bool {
	redraw, err := v.Session.Handle(ev)
	if errors.Is(err, session.ErrQuit) {
		return true
	}
	if redraw || err != nil {
		w.Send(paint.Event{})
	}
	return false
}

func (v *Viewer) paint(s screen.Screen, w screen.Window, sz image.Point) error {
	if sz.X <= 0 || sz.Y <= 0 {
		return nil
	}
	b, err := s.NewBuffer(sz)
	if err != nil {
		return err
	}
	defer b.Release()
	dst := b.RGBA()
	sess := v.Session
	if sess.View != nil {
		if err := v.Pipeline.Draw(dst, sess.Image, sess.View, sess.Store.Shapes()); err != nil {
			v.log().WithError(err).Warn("draw")
		}
	}
	v.Pipeline.Status(dst, sess.Status())
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
	return nil
}
