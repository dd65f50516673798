package platform

import "time"

// appName is the sender shown by notification centres.
const appName = "VisionLabel"

// Urgency ranks a notification. Destructive events use Critical.
type Urgency byte

const (
	Low Urgency = iota
	Normal
	Critical
)

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, is an image shown with the notification.
	// Chip notifications pass the first chip written.
	IconPath string
	Urgency  Urgency
	// Timeout is how long the notification stays up. Zero uses the
	// platform default.
	Timeout time.Duration
}
