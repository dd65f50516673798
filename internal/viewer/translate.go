package viewer

import (
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/mgnigh98/VisionLabel/internal/input"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

// translator turns shiny window events into input events. Motion events
// carry no button, so the held button is remembered between them.
type translator struct {
	held input.Button
}

func buttonOf(b mouse.Button) input.Button {
	switch b {
	case mouse.ButtonLeft:
		return input.Primary
	case mouse.ButtonRight:
		return input.Secondary
	case mouse.ButtonMiddle:
		return input.Tertiary
	}
	return input.ButtonNone
}

func (t *translator) mouse(e mouse.Event) (input.Event, bool) {
	pos := viewport.Pt(float64(e.X), float64(e.Y))
	if e.Button.IsWheel() {
		if e.Direction != mouse.DirStep && e.Direction != mouse.DirPress {
			return nil, false
		}
		switch e.Button {
		case mouse.ButtonWheelUp:
			return input.Wheel{Pos: pos, Delta: 1}, true
		case mouse.ButtonWheelDown:
			return input.Wheel{Pos: pos, Delta: -1}, true
		}
		return nil, false
	}
	switch e.Direction {
	case mouse.DirPress:
		b := buttonOf(e.Button)
		if b == input.ButtonNone {
			return nil, false
		}
		if b == input.Primary {
			t.held = b
		}
		return input.Pointer{Pos: pos, Button: b, Action: input.Press}, true
	case mouse.DirRelease:
		b := buttonOf(e.Button)
		if b == input.Primary {
			t.held = input.ButtonNone
		}
		if b == input.ButtonNone {
			return nil, false
		}
		return input.Pointer{Pos: pos, Button: b, Action: input.Release}, true
	case mouse.DirNone:
		if t.held == input.ButtonNone {
			return nil, false
		}
		return input.Pointer{Pos: pos, Button: t.held, Action: input.Drag}, true
	}
	return nil, false
}

func (t *translator) key(e key.Event) (input.Event, bool) {
	if e.Direction != key.DirPress {
		return nil, false
	}
	switch e.Code {
	case key.CodeLeftArrow:
		return input.Key{Code: input.KeyLeft}, true
	case key.CodeRightArrow:
		return input.Key{Code: input.KeyRight}, true
	case key.CodeUpArrow:
		return input.Key{Code: input.KeyUp}, true
	case key.CodeDownArrow:
		return input.Key{Code: input.KeyDown}, true
	case key.CodeEscape:
		return input.Key{Code: input.KeyEscape}, true
	}
	if e.Rune > 0 {
		return input.Key{Code: input.KeyRune, Rune: e.Rune}, true
	}
	return nil, false
}
