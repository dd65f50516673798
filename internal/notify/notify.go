package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mgnigh98/VisionLabel/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport emits a notification when annotations are written.
	EventExport Event = "export"
	// EventChip emits a notification when chips are written.
	EventChip Event = "chip"
	// EventDelete emits a notification when an image is removed from disk.
	EventDelete Event = "delete"
	// EventCopy emits a notification when rows are copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "VisionLabel",
		Events: map[Event]EventPreference{
			EventExport: {Template: "Exported %s"},
			EventChip:   {Template: "Chipped %s"},
			EventDelete: {Template: "Deleted %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads overrides from environment variables.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("VISIONLABEL_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			eventPrefs := prefs.Events[event]
			eventPrefs.Template = v
			prefs.Events[event] = eventPrefs
		}
	}
	apply("VISIONLABEL_NOTIFY_EXPORT_TEXT", EventExport)
	apply("VISIONLABEL_NOTIFY_CHIP_TEXT", EventChip)
	apply("VISIONLABEL_NOTIFY_DELETE_TEXT", EventDelete)
	apply("VISIONLABEL_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

const defaultTimeout = 5 * time.Second

// send is swapped out in tests.
var send = platform.Notify

// Notifier sends OS-level notifications based on the configured preferences.
// A nil Notifier is valid and sends nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	log     logrus.FieldLogger
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences, log logrus.FieldLogger) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), log: log}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Export reports annotation files written for an image.
func (n *Notifier) Export(image string, files int) {
	n.dispatch(EventExport, fmt.Sprintf("%s (%d files)", filepath.Base(image), files), platform.Options{Urgency: platform.Low})
}

// Chip reports a chip batch. preview, when set, is shown as the icon.
func (n *Notifier) Chip(summary, preview string) {
	opts := platform.Options{Urgency: platform.Normal}
	if preview != "" {
		if abs, err := filepath.Abs(preview); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventChip, summary, opts)
}

// Delete reports a removed image.
func (n *Notifier) Delete(path string) {
	n.dispatch(EventDelete, filepath.Base(path), platform.Options{Urgency: platform.Critical, Timeout: 10 * time.Second})
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "annotations"
	}
	n.dispatch(EventCopy, detail, platform.Options{Urgency: platform.Low})
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil {
		return false
	}
	if n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.template(event))
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		n.log.WithField("event", event).Warnf("notification: %v", err)
	}
}

func (n *Notifier) template(event Event) string {
	if n == nil {
		return ""
	}
	if pref, ok := n.prefs.Events[event]; ok {
		return pref.Template
	}
	return ""
}
