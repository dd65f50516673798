package input

import (
	"testing"

	"github.com/mgnigh98/VisionLabel/internal/annotation"
)

func TestModeToggle(t *testing.T) {
	m := Draw(annotation.Box)
	steps := []struct {
		next func(Mode) Mode
		want string
	}{
		{Mode.Toggle, "draw line"},
		{Mode.Pan, "pan"},
		{Mode.Toggle, "draw line"},
		{Mode.Toggle, "draw box"},
	}
	for i, s := range steps {
		m = s.next(m)
		if m.String() != s.want {
			t.Fatalf("step %d: %s, want %s", i, m, s.want)
		}
	}
}
