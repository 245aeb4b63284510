package scan

// Event is a single notification emitted by a running scan. The concrete
// types below are the only implementations. Events arrive in emission
// order and every run ends with exactly one terminal event, either
// CompleteEvent or CancelledEvent.
type Event interface {
	isEvent()
}

// StatusEvent announces a phase change in user-facing words.
type StatusEvent struct {
	Message string
}

// LogEvent is one human-readable log line (file skipped, original kept,
// file moved, access denied).
type LogEvent struct {
	Message string
}

// ProgressEvent reports hashing progress. Current counts both hashed and
// skipped files and only ever increases within a run.
type ProgressEvent struct {
	Current int
	Total   int
}

// CompleteEvent is the terminal event of a finished scan.
type CompleteEvent struct {
	Summary string
	Groups  int
	Moved   int
	Errors  int
}

// CancelledEvent is the terminal event of an interrupted scan.
type CancelledEvent struct{}

func (StatusEvent) isEvent()    {}
func (LogEvent) isEvent()       {}
func (ProgressEvent) isEvent()  {}
func (CompleteEvent) isEvent()  {}
func (CancelledEvent) isEvent() {}

// Sink receives scan events. Emit is called sequentially from the
// goroutine running the scan; implementations that cross goroutine
// boundaries must do their own handoff.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// discard swallows every event. Used when a caller has no interest in
// streaming output, such as the MCP adapter.
type discard struct{}

func (discard) Emit(Event) {}

// Discard is a Sink that drops all events.
var Discard Sink = discard{}
