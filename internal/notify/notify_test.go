package notify

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mgnigh98/VisionLabel/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func capture(t *testing.T, err error) *[]sent {
	t.Helper()
	var got []sent
	orig := send
	send = func(title, body string, opts platform.Options) error {
		got = append(got, sent{title, body, opts})
		return err
	}
	t.Cleanup(func() { send = orig })
	return &got
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := capture(t, nil)
	n := New(DefaultPreferences(), quiet())
	n.Export("/a/b.png", 2)
	n.Delete("/a/b.png")
	var nilNotifier *Notifier
	nilNotifier.Copy("x")
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %+v", *got)
	}
}

func TestEnabledEventsFormatBody(t *testing.T) {
	got := capture(t, nil)
	n := New(DefaultPreferences(), quiet())
	n.Enable(EventExport, true)
	n.Enable(EventDelete, true)
	n.Export("/a/b.png", 2)
	n.Delete("/a/c.tif")
	if len(*got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(*got))
	}
	if (*got)[0].body != "Exported b.png (2 files)" || (*got)[0].title != "VisionLabel" {
		t.Fatalf("unexpected export notification %+v", (*got)[0])
	}
	if d := (*got)[1]; d.body != "Deleted c.tif" || d.opts.Urgency != platform.Critical {
		t.Fatalf("unexpected delete notification %+v", d)
	}
	if (*got)[0].opts.Timeout != defaultTimeout {
		t.Fatalf("export timeout %v", (*got)[0].opts.Timeout)
	}
}

func TestChipPreviewIcon(t *testing.T) {
	got := capture(t, errors.New("no bus"))
	n := New(DefaultPreferences(), quiet())
	n.Enable(EventChip, true)
	n.Chip("3 chips, 12 kB", "pngs/a.png")
	if len(*got) != 1 || (*got)[0].opts.IconPath == "" {
		t.Fatalf("expected icon path, got %+v", *got)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("VISIONLABEL_NOTIFY_TITLE", "Labeller")
	t.Setenv("VISIONLABEL_NOTIFY_CHIP_TEXT", "Done: %s")
	p := LoadPreferences()
	if p.Title != "Labeller" || p.Events[EventChip].Template != "Done: %s" {
		t.Fatalf("unexpected prefs %+v", p)
	}
}
