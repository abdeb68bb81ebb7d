package app

import "time"

// TickMsg drives the playback poll loop. While media plays it carries the
// moment the tick fired.
type TickMsg struct {
	At time.Time
}

// SessionLoadedMsg reports the outcome of the initial load requested on the
// command line.
type SessionLoadedMsg struct {
	Err error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
