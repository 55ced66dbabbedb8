// Package notify carries transient user-facing messages (toasts).
package notify

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"
)

// DefaultTimeout is how long a toast stays visible.
const DefaultTimeout = 3 * time.Second

// Severity is the visual weight of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityNeutral Severity = "neutral"
)

// Notification is a single toast.
type Notification struct {
	ID       string
	Severity Severity
	Message  string
	At       time.Time
}

// Notifier receives notifications.
type Notifier interface {
	Notify(severity Severity, message string)
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Severity, string) {}

// Multi fans each notification out to every notifier.
type Multi []Notifier

// Notify forwards to each notifier in order.
func (m Multi) Notify(severity Severity, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(severity, message)
		}
	}
}

// Center queues notifications and expires them after a timeout.
// It is not safe for concurrent use; the TUI drives it from its update loop.
type Center struct {
	timeout time.Duration
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
	items   []Notification
}

// CenterOption configures a Center.
type CenterOption func(*Center)

// WithClock overrides the time source.
func WithClock(now func() time.Time) CenterOption {
	return func(c *Center) {
		c.now = now
	}
}

// NewCenter creates a Center. A non-positive timeout uses DefaultTimeout.
func NewCenter(timeout time.Duration, opts ...CenterOption) *Center {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Center{
		timeout: timeout,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the auto-dismiss interval.
func (c *Center) Timeout() time.Duration {
	return c.timeout
}

// Notify queues a notification stamped with the current time.
func (c *Center) Notify(severity Severity, message string) {
	at := c.now()
	c.items = append(c.items, Notification{
		ID:       c.newID(at),
		Severity: severity,
		Message:  message,
		At:       at,
	})
}

// Active returns the notifications that have not expired at now, oldest first.
func (c *Center) Active(now time.Time) []Notification {
	out := make([]Notification, 0, len(c.items))
	for _, n := range c.items {
		if now.Sub(n.At) < c.timeout {
			out = append(out, n)
		}
	}
	return out
}

// Prune drops expired notifications and reports how many were removed.
func (c *Center) Prune(now time.Time) int {
	kept := c.items[:0]
	for _, n := range c.items {
		if now.Sub(n.At) < c.timeout {
			kept = append(kept, n)
		}
	}
	removed := len(c.items) - len(kept)
	c.items = kept
	return removed
}

// Len returns the number of queued notifications, expired or not.
func (c *Center) Len() int {
	return len(c.items)
}

// newID returns a ULID. IDs from one Center sort in creation order, even
// within the same millisecond.
func (c *Center) newID(at time.Time) string {
	id, err := ulid.New(ulid.Timestamp(at), c.entropy)
	if err != nil {
		return fmt.Sprintf("%d", at.UnixNano())
	}
	return id.String()
}

// LogNotifier writes notifications to a charmbracelet/log logger.
type LogNotifier struct {
	Logger *log.Logger
}

// NewLogNotifier wraps logger.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

// Notify logs the message at a level matching its severity.
func (l *LogNotifier) Notify(severity Severity, message string) {
	if l == nil || l.Logger == nil {
		return
	}
	switch severity {
	case SeverityWarning:
		l.Logger.Warn(message)
	case SeveritySuccess, SeverityInfo:
		l.Logger.Info(message)
	default:
		l.Logger.Info(message, "severity", string(severity))
	}
}
