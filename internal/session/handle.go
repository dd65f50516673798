package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mgnigh98/VisionLabel/internal/input"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

// Handle applies one input event. redraw reports whether the canvas needs
// repainting. Errors have already been logged and put in the status line;
// ErrQuit asks the caller to close.
func (s *Session) Handle(ev input.Event) (redraw bool, err error) {
	if k, ok := ev.(input.Key); !ok || k.Code != input.KeyRune || k.Rune != 'x' {
		if s.confirm {
			s.confirm = false
			s.setStatus("")
			redraw = true
		}
	}
	switch e := ev.(type) {
	case input.Pointer:
		return s.pointer(e) || redraw, nil
	case input.Wheel:
		return s.wheel(e) || redraw, nil
	case input.Key:
		r, err := s.key(e)
		return r || redraw, err
	}
	return redraw, nil
}

func (s *Session) pointer(e input.Pointer) bool {
	if s.View == nil {
		return false
	}
	switch e.Button {
	case input.Secondary:
		if e.Action != input.Press {
			return false
		}
		s.drawing = false
		_, ok := s.Store.DeleteLast()
		return ok
	case input.Tertiary:
		if e.Action != input.Press {
			return false
		}
		s.Mode = s.Mode.Toggle()
		return true
	case input.Primary:
		if s.Mode.Kind == input.ModePan {
			return s.pan(e)
		}
		return s.draw(e)
	}
	return false
}

func (s *Session) draw(e input.Pointer) bool {
	switch e.Action {
	case input.Press:
		s.Store.Begin(s.Mode.Shape, e.Pos, s.Label, s.View.Frame)
		s.drawing = true
		return true
	case input.Drag:
		return s.drawing && s.Store.Update(e.Pos, s.View.Frame)
	case input.Release:
		if !s.drawing {
			return false
		}
		s.drawing = false
		s.Store.Update(e.Pos, s.View.Frame)
		return s.Store.Commit()
	}
	return false
}

func (s *Session) pan(e input.Pointer) bool {
	switch e.Action {
	case input.Press:
		s.panning = s.View.Contains(e.Pos)
		s.last = e.Pos
	case input.Drag, input.Release:
		if !s.panning {
			return false
		}
		moved := s.View.Pan(s.last, e.Pos.X-s.last.X, e.Pos.Y-s.last.Y)
		s.last = e.Pos
		if e.Action == input.Release {
			s.panning = false
		}
		return moved
	}
	return false
}

func (s *Session) wheel(e input.Wheel) bool {
	if s.View == nil || e.Delta == 0 {
		return false
	}
	dir := viewport.In
	if e.Delta < 0 {
		dir = viewport.Out
	}
	_, ok := s.View.Zoom(e.Pos, dir)
	return ok
}

func (s *Session) key(e input.Key) (bool, error) {
	switch e.Code {
	case input.KeyLeft:
		return true, s.Prev()
	case input.KeyRight:
		return true, s.Next()
	case input.KeyUp:
		return s.stepLabel(1), nil
	case input.KeyDown:
		return s.stepLabel(-1), nil
	case input.KeyEscape:
		if s.drawing {
			s.drawing = false
			s.Store.DeleteLast()
			return true, nil
		}
		return false, nil
	case input.KeyRune:
	default:
		return false, nil
	}

	r := e.Rune
	if r >= '0' && r <= '9' {
		s.Label = string(r)
		return true, nil
	}
	var err error
	switch r {
	case 'p':
		if s.Mode.Kind == input.ModePan {
			s.Mode = input.Draw(s.Mode.Shape)
		} else {
			s.Mode = s.Mode.Pan()
		}
	case 'f':
		if s.View != nil {
			s.View.Fit()
		}
	case 'e':
		_, err = s.Export()
	case 'c':
		_, err = s.Chip()
	case 'g':
		_, err = s.Grid(0)
	case 'i':
		_, err = s.Import()
	case 'y':
		err = s.CopyRows()
	case 'v':
		_, err = s.PasteRows()
	case 'x':
		if s.Image == nil {
			return false, nil
		}
		if !s.confirm {
			s.confirm = true
			s.setStatus("press x again to delete %s", s.Image.Path)
			return true, nil
		}
		s.confirm = false
		err = s.Remove(func(string) bool { return true })
	case 'q':
		return false, ErrQuit
	default:
		return false, nil
	}
	if errors.Is(err, ErrNoImages) {
		err = nil
	}
	return true, err
}

// stepLabel adds d to a numeric label. Other labels are left alone.
func (s *Session) stepLabel(d int) bool {
	n, err := strconv.Atoi(s.Label)
	if err != nil {
		s.setStatus("label %q is not a number", s.Label)
		return true
	}
	s.Label = strconv.Itoa(n + d)
	return true
}

// SetLabel replaces the label used for new shapes.
func (s *Session) SetLabel(l string) error {
	if l == "" {
		return fmt.Errorf("empty label")
	}
	s.Label = l
	return nil
}
