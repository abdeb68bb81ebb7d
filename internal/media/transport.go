// Package media implements the playback transport: play state, current
// position, and the start/end trim points for the loaded media file. The
// position advances with wall time while playing; actual decoding and
// rendering live outside this program.
package media

import (
	"os"
	"time"
)

// State is the transport play state.
type State int

const (
	// StateLoading means no media is loaded and ready yet.
	StateLoading State = iota
	StateStopped
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	default:
		return "loading"
	}
}

// Transport owns playback state for one media file.
type Transport struct {
	filename string
	state    State

	basePos  int // position in ms at the last state change
	playedAt time.Time

	duration   int
	startPoint int
	endPoint   int // <= 0 means untrimmed

	clock func() time.Time
}

// New returns an empty transport with nothing loaded.
func New() *Transport {
	return &Transport{state: StateLoading, clock: time.Now}
}

// Open loads a media file. It fails when the file does not exist; the
// session proceeds without playback in that case.
func (t *Transport) Open(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	t.filename = path
	t.state = StateStopped
	t.basePos = 0
	t.startPoint = 0
	t.endPoint = 0
	return true
}

// Clear unloads the current media file.
func (t *Transport) Clear() {
	t.filename = ""
	t.state = StateLoading
	t.basePos = 0
	t.duration = 0
	t.startPoint = 0
	t.endPoint = 0
}

// Filename returns the loaded media path, empty when nothing is loaded.
func (t *Transport) Filename() string { return t.filename }

// State returns the current play state, accounting for playback that has
// run into the end point.
func (t *Transport) State() State {
	t.checkEnd()
	return t.state
}

// Play starts playback from the current position.
func (t *Transport) Play() {
	if t.state == StateLoading || t.state == StatePlaying {
		return
	}
	t.playedAt = t.clock()
	t.state = StatePlaying
}

// Pause halts playback, keeping the current position.
func (t *Transport) Pause() {
	if t.state != StatePlaying {
		return
	}
	t.basePos = t.Position()
	t.state = StatePaused
}

// Stop halts playback and repositions at the start point.
func (t *Transport) Stop() {
	if t.state == StateLoading {
		return
	}
	t.state = StateStopped
	t.basePos = t.startPoint
}

// Position returns the current playback position in milliseconds.
func (t *Transport) Position() int {
	t.checkEnd()
	if t.state != StatePlaying {
		return t.basePos
	}
	return t.basePos + int(t.clock().Sub(t.playedAt).Milliseconds())
}

// SetPosition moves the playback position, clamped to the trim points.
func (t *Transport) SetPosition(ms int) {
	if ms < t.startPoint {
		ms = t.startPoint
	}
	if end := t.effectiveEnd(); end > 0 && ms > end {
		ms = end
	}
	t.basePos = ms
	if t.state == StatePlaying {
		t.playedAt = t.clock()
	}
}

// Duration returns the media length in milliseconds, 0 when unknown.
func (t *Transport) Duration() int { return t.duration }

// SetDuration records the media length once it is known.
func (t *Transport) SetDuration(ms int) { t.duration = ms }

// StartPoint returns the playback start trim point.
func (t *Transport) StartPoint() int { return t.startPoint }

// SetStartPoint sets the playback start trim point. Negative values clamp
// to the beginning of the media.
func (t *Transport) SetStartPoint(ms int) {
	if ms < 0 {
		ms = 0
	}
	t.startPoint = ms
	if t.basePos < ms {
		t.basePos = ms
	}
}

// EndPoint returns the playback end trim point; <= 0 means untrimmed.
func (t *Transport) EndPoint() int { return t.endPoint }

// SetEndPoint sets the playback end trim point.
func (t *Transport) SetEndPoint(ms int) { t.endPoint = ms }

func (t *Transport) effectiveEnd() int {
	if t.endPoint > 0 {
		return t.endPoint
	}
	if t.duration > 0 {
		return t.duration
	}
	return 0
}

// checkEnd stops playback that has run past the end point.
func (t *Transport) checkEnd() {
	if t.state != StatePlaying {
		return
	}
	end := t.effectiveEnd()
	if end <= 0 {
		return
	}
	pos := t.basePos + int(t.clock().Sub(t.playedAt).Milliseconds())
	if pos >= end {
		t.state = StateStopped
		t.basePos = t.startPoint
	}
}
