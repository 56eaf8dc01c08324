package engine

import "github.com/leapstack-labs/phpns/pkg/core"

// Buffer is an editor buffer or file that may receive boilerplate.
type Buffer interface {
	// ID identifies the buffer across events (a URI or a path).
	ID() string
	// Path is the backing file, or "" while the buffer has none.
	Path() string
	// IsEmpty reports whether the buffer has no content.
	IsEmpty() bool
	// Append adds text at the end of the buffer.
	Append(text string) error
}

// EventKind enumerates the host events the engine reacts to.
type EventKind int

// Event kinds.
const (
	// BufferAdded is sent when a buffer is opened or a file is created.
	BufferAdded EventKind = iota
	// BufferSaved is sent after a buffer was written to disk.
	BufferSaved
	// BufferClosed is sent when the host drops a buffer.
	BufferClosed
	// ReloadRequested asks for the rule table to be rebuilt.
	ReloadRequested
)

// String returns the event kind name used in logs.
func (k EventKind) String() string {
	switch k {
	case BufferAdded:
		return "buffer-added"
	case BufferSaved:
		return "buffer-saved"
	case BufferClosed:
		return "buffer-closed"
	case ReloadRequested:
		return "reload-requested"
	default:
		return "unknown"
	}
}

// Event is a single host notification. Buffer is nil for ReloadRequested.
type Event struct {
	Kind   EventKind
	Buffer Buffer
}

// FileEventSource delivers host events in order.
type FileEventSource interface {
	Events() <-chan Event
}

// ProjectRootProvider lists project roots and locates files within them.
type ProjectRootProvider interface {
	Roots() []string
	Relativize(path string) (root, rel string, ok bool)
}

// ConfigProvider reads the current generator settings.
type ConfigProvider interface {
	Settings() core.Settings
}

// StaticSettings is a ConfigProvider that never changes.
type StaticSettings core.Settings

// Settings implements ConfigProvider.
func (s StaticSettings) Settings() core.Settings {
	return core.Settings(s)
}

// Result describes what Dispatch did with an event.
type Result string

// Dispatch results. Every result except ResultAppended and ResultReloaded
// leaves the buffer untouched.
const (
	ResultIgnored      Result = "ignored"
	ResultPending      Result = "pending"
	ResultNoPath       Result = "no-path"
	ResultNotClassFile Result = "not-class-file"
	ResultNotEmpty     Result = "not-empty"
	ResultStatFailed   Result = "stat-failed"
	ResultStale        Result = "stale"
	ResultNoRule       Result = "no-rule"
	ResultFormatFailed Result = "format-failed"
	ResultAppendFailed Result = "append-failed"
	ResultAppended     Result = "appended"
	ResultReloaded     Result = "reloaded"
)
