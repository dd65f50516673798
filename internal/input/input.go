// Package input describes user interaction independently of any window
// toolkit.
package input

import (
	"fmt"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

// Button identifies a pointer button by role.
type Button int

const (
	ButtonNone Button = iota
	// Primary draws, or pans in pan mode.
	Primary
	// Secondary removes the most recent shape.
	Secondary
	// Tertiary toggles between boxes and lines.
	Tertiary
)

// Action is the phase of a pointer gesture.
type Action int

const (
	Press Action = iota
	Drag
	Release
)

// Event is one of Pointer, Wheel or Key.
type Event interface{ isEvent() }

// Pointer is a button press, motion with the button held, or release.
type Pointer struct {
	Pos    viewport.Point
	Button Button
	Action Action
}

// Wheel is one scroll step. Positive Delta zooms in.
type Wheel struct {
	Pos   viewport.Point
	Delta int
}

// KeyCode names the keys that are not plain runes.
type KeyCode int

const (
	KeyRune KeyCode = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyEscape
)

// Key is a key press. Rune is set when Code is KeyRune.
type Key struct {
	Code KeyCode
	Rune rune
}

func (Pointer) isEvent() {}
func (Wheel) isEvent()   {}
func (Key) isEvent()     {}

// ModeKind selects what the primary button does.
type ModeKind int

const (
	ModeDraw ModeKind = iota
	ModePan
)

// Mode is the interaction state. Shape is the kind drawn in ModeDraw and is
// remembered while panning.
type Mode struct {
	Kind  ModeKind
	Shape annotation.Kind
}

// Draw returns the drawing mode for kind.
func Draw(kind annotation.Kind) Mode { return Mode{Kind: ModeDraw, Shape: kind} }

// Pan returns the panning mode, keeping the current shape kind.
func (m Mode) Pan() Mode { return Mode{Kind: ModePan, Shape: m.Shape} }

// Toggle swaps the shape kind. In pan mode it returns to drawing.
func (m Mode) Toggle() Mode {
	if m.Kind == ModePan {
		return Draw(m.Shape)
	}
	return Draw(m.Shape.Toggle())
}

func (m Mode) String() string {
	switch m.Kind {
	case ModeDraw:
		return "draw " + m.Shape.String()
	case ModePan:
		return "pan"
	}
	return fmt.Sprintf("Mode(%d)", int(m.Kind))
}
