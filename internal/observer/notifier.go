package observer

import (
	"github.com/rs/zerolog"
)

// EventKind identifies what happened during a walk.
type EventKind uint8

const (
	// EventInfo is a diagnostic message.
	EventInfo EventKind = iota
	// EventSkipped reports an entry left out by a filter.
	EventSkipped
	// EventStatFailed reports an entry whose metadata could not be read.
	EventStatFailed
	// EventListFailed reports a directory that could not be listed.
	EventListFailed
)

// String returns the name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventSkipped:
		return "skipped"
	case EventStatFailed:
		return "stat_failed"
	case EventListFailed:
		return "list_failed"
	default:
		return "info"
	}
}

// Event is a single diagnostic emitted during a walk.
type Event struct {
	Kind    EventKind
	Path    string
	Message string
	Err     error
}

// Notifier is an opaque sink for walk diagnostics.
// Nothing in a walk depends on what a Notifier does with an event.
type Notifier interface {
	Notify(e Event)
}

// Nop discards every event.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(Event) {}

// LogNotifier writes events to a zerolog logger.
// Filesystem failures are logged at warn level, everything else at debug.
type LogNotifier struct {
	Logger zerolog.Logger
}

// NewLogNotifier returns a Notifier that logs to l.
func NewLogNotifier(l zerolog.Logger) LogNotifier {
	return LogNotifier{Logger: l}
}

// Notify implements Notifier.
func (n LogNotifier) Notify(e Event) {
	var ev *zerolog.Event

	switch e.Kind {
	case EventStatFailed, EventListFailed:
		ev = n.Logger.Warn()
	default:
		ev = n.Logger.Debug()
	}

	if e.Path != "" {
		ev = ev.Str("path", e.Path)
	}

	if e.Err != nil {
		ev = ev.Err(e.Err)
	}

	ev.Str("event", e.Kind.String()).Msg(e.Message)
}

// Counter counts events per kind. It is not safe for concurrent use.
type Counter struct {
	Counts map[EventKind]int
}

// Notify implements Notifier.
func (c *Counter) Notify(e Event) {
	if c.Counts == nil {
		c.Counts = make(map[EventKind]int)
	}

	c.Counts[e.Kind]++
}

// Failures returns the number of stat and listing failures seen.
func (c *Counter) Failures() int {
	return c.Counts[EventStatFailed] + c.Counts[EventListFailed]
}

// Multi fans an event out to several notifiers.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(e Event) {
	for _, n := range m {
		n.Notify(e)
	}
}
