package viewer

import (
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/mgnigh98/VisionLabel/internal/input"
	"github.com/mgnigh98/VisionLabel/internal/viewport"
)

func TestMouseDragCarriesHeldButton(t *testing.T) {
	var tr translator
	if _, ok := tr.mouse(mouse.Event{X: 5, Y: 5, Direction: mouse.DirNone}); ok {
		t.Fatal("motion without a button should be dropped")
	}
	seq := []struct {
		in   mouse.Event
		want input.Pointer
	}{
		{mouse.Event{X: 1, Y: 2, Button: mouse.ButtonLeft, Direction: mouse.DirPress}, input.Pointer{Pos: viewport.Pt(1, 2), Button: input.Primary, Action: input.Press}},
		{mouse.Event{X: 3, Y: 4, Direction: mouse.DirNone}, input.Pointer{Pos: viewport.Pt(3, 4), Button: input.Primary, Action: input.Drag}},
		{mouse.Event{X: 5, Y: 6, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}, input.Pointer{Pos: viewport.Pt(5, 6), Button: input.Primary, Action: input.Release}},
	}
	for i, s := range seq {
		got, ok := tr.mouse(s.in)
		if !ok || got != s.want {
			t.Fatalf("step %d: got %#v, want %#v", i, got, s.want)
		}
	}
	if _, ok := tr.mouse(mouse.Event{X: 7, Y: 7, Direction: mouse.DirNone}); ok {
		t.Fatal("motion after release should be dropped")
	}
}

func TestMouseButtonsAndWheel(t *testing.T) {
	var tr translator
	got, _ := tr.mouse(mouse.Event{Button: mouse.ButtonMiddle, Direction: mouse.DirPress})
	if p := got.(input.Pointer); p.Button != input.Tertiary {
		t.Fatalf("middle -> %v", p.Button)
	}
	got, _ = tr.mouse(mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress})
	if p := got.(input.Pointer); p.Button != input.Secondary {
		t.Fatalf("right -> %v", p.Button)
	}
	got, ok := tr.mouse(mouse.Event{X: 10, Y: 20, Button: mouse.ButtonWheelDown, Direction: mouse.DirStep})
	if w, isWheel := got.(input.Wheel); !ok || !isWheel || w.Delta != -1 || w.Pos != viewport.Pt(10, 20) {
		t.Fatalf("wheel down -> %#v", got)
	}
	got, _ = tr.mouse(mouse.Event{Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	if w := got.(input.Wheel); w.Delta != 1 {
		t.Fatalf("wheel up -> %#v", w)
	}
}

func TestKeys(t *testing.T) {
	var tr translator
	cases := []struct {
		in   key.Event
		want input.Key
		ok   bool
	}{
		{key.Event{Code: key.CodeLeftArrow, Direction: key.DirPress}, input.Key{Code: input.KeyLeft}, true},
		{key.Event{Code: key.CodeDownArrow, Direction: key.DirPress}, input.Key{Code: input.KeyDown}, true},
		{key.Event{Rune: '7', Code: key.Code7, Direction: key.DirPress}, input.Key{Code: input.KeyRune, Rune: '7'}, true},
		{key.Event{Rune: '7', Code: key.Code7, Direction: key.DirRelease}, input.Key{}, false},
		{key.Event{Rune: -1, Code: key.CodeLeftShift, Direction: key.DirPress}, input.Key{}, false},
	}
	for i, c := range cases {
		got, ok := tr.key(c.in)
		if ok != c.ok {
			t.Fatalf("case %d: ok = %v", i, ok)
		}
		if ok && got != c.want {
			t.Fatalf("case %d: got %#v, want %#v", i, got, c.want)
		}
	}
}
