// Package transcript implements the transcript editing surface: a text
// buffer with embedded time-code markers, a cursor/selection, and a
// read-only flag. The session coordinator drives it through the surface
// contract; it never talks to other windows itself.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/UtahDave/Transana/internal/layout"
	"github.com/UtahDave/Transana/internal/store"
)

// Time codes are embedded in transcript text as [tc:<milliseconds>].
var timeCodeRe = regexp.MustCompile(`\[tc:(\d+)\]`)

// Saver is the slice of the store the editor needs to persist a record.
type Saver interface {
	SaveTranscript(tr *store.Transcript) error
	LockTranscript(num int64, lastSave time.Time) error
	UnlockTranscript(num int64) error
}

type timeCode struct {
	pos int // byte offset of the marker in the text
	ms  int
}

// Editor is one transcript window's text surface.
type Editor struct {
	saver Saver

	rec   *store.Transcript
	text  string
	codes []timeCode

	selStart int
	selEnd   int

	savedStart int
	savedEnd   int
	hasSaved   bool

	posIndex int // index into codes tracking the playback position; -1 before any

	readOnly bool
	modified bool

	title          string
	windowNumber   int
	bounds         layout.Rect
	visible        bool
	focused        bool
	selectionLabel string

	saveMu sync.Mutex
}

// New creates an empty editor backed by the given saver.
func New(saver Saver) *Editor {
	return &Editor{saver: saver, readOnly: true, posIndex: -1, visible: true}
}

// Load replaces the editor contents with a transcript record.
func (e *Editor) Load(rec *store.Transcript) {
	e.rec = rec
	e.text = rec.Text
	e.codes = parseTimeCodes(rec.Text)
	e.selStart, e.selEnd = 0, 0
	e.savedStart, e.savedEnd, e.hasSaved = 0, 0, false
	e.posIndex = -1
	e.modified = false
	e.readOnly = true
}

// Clear empties the editor and drops the loaded record.
func (e *Editor) Clear() {
	e.rec = nil
	e.text = ""
	e.codes = nil
	e.selStart, e.selEnd = 0, 0
	e.savedStart, e.savedEnd, e.hasSaved = 0, 0, false
	e.posIndex = -1
	e.modified = false
	e.readOnly = true
	e.selectionLabel = ""
}

// Record returns the loaded transcript record, or nil.
func (e *Editor) Record() *store.Transcript { return e.rec }

// RecordNum returns the loaded record's number, 0 for unsaved or empty.
func (e *Editor) RecordNum() int64 {
	if e.rec == nil {
		return 0
	}
	return e.rec.Number
}

// Text returns the current buffer contents.
func (e *Editor) Text() string { return e.text }

// SetText replaces the buffer contents, marking the editor modified.
// It is a no-op while the editor is read-only.
func (e *Editor) SetText(text string) {
	if e.readOnly {
		return
	}
	e.text = text
	e.codes = parseTimeCodes(text)
	e.modified = true
	if e.selStart > len(text) {
		e.selStart = len(text)
	}
	if e.selEnd > len(text) {
		e.selEnd = len(text)
	}
}

// ReadOnly reports whether the editor is in read-only mode.
func (e *Editor) ReadOnly() bool { return e.readOnly }

// SetReadOnly switches between read-only and edit mode.
func (e *Editor) SetReadOnly(ro bool) { e.readOnly = ro }

// Modified reports whether the buffer has unsaved changes.
func (e *Editor) Modified() bool { return e.modified }

// Selection returns the selection bounds. Equal bounds mean a caret.
func (e *Editor) Selection() (start, end int) { return e.selStart, e.selEnd }

// SetSelection sets the selection bounds, clamped to the buffer.
func (e *Editor) SetSelection(start, end int) {
	e.selStart = clamp(start, 0, len(e.text))
	e.selEnd = clamp(end, e.selStart, len(e.text))
}

// SelectedText returns the text inside the current selection.
func (e *Editor) SelectedText() string {
	return e.text[e.selStart:e.selEnd]
}

// SaveCursor remembers the current selection for later restore.
func (e *Editor) SaveCursor() {
	e.savedStart, e.savedEnd = e.selStart, e.selEnd
	e.hasSaved = true
}

// HasSavedCursor reports whether a selection has been remembered.
func (e *Editor) HasSavedCursor() bool { return e.hasSaved }

// RestoreCursor puts the selection back where SaveCursor recorded it.
func (e *Editor) RestoreCursor() {
	if !e.hasSaved {
		return
	}
	e.SetSelection(e.savedStart, e.savedEnd)
	e.hasSaved = false
}

// SelectedTimeRange returns the media times bounding the current selection:
// the time code nearest before the selection start, and the first time code
// after the selection end. Zero start means "no preceding code"; end <= 0
// means "no following code" and must be resolved by the caller.
func (e *Editor) SelectedTimeRange() (start, end int) {
	for _, tc := range e.codes {
		if tc.pos <= e.selStart {
			start = tc.ms
		}
		if tc.pos > e.selEnd {
			return start, tc.ms
		}
	}
	return start, 0
}

// ScrollToTime moves the caret to the text following the nearest time code
// at or before ms.
func (e *Editor) ScrollToTime(ms int) {
	pos := 0
	for _, tc := range e.codes {
		if tc.ms > ms {
			break
		}
		pos = tc.pos + markerLen(tc.ms)
	}
	e.selStart, e.selEnd = pos, pos
}

// SelectThroughTime extends the selection from the caret through the text
// just before the first time code at or past ms. With no such code the
// selection extends to the end of the buffer.
func (e *Editor) SelectThroughTime(ms int) {
	end := len(e.text)
	for _, tc := range e.codes {
		if tc.ms >= ms && tc.pos >= e.selStart {
			end = tc.pos
			break
		}
	}
	e.selEnd = end
}

// UpdatePosition tracks the playback position against the time-code index.
// In read-only mode the caret follows the position. Returns true when the
// position crossed into a different time-coded span.
func (e *Editor) UpdatePosition(ms int) bool {
	idx := -1
	for i, tc := range e.codes {
		if tc.ms > ms {
			break
		}
		idx = i
	}
	if idx == e.posIndex {
		return false
	}
	e.posIndex = idx
	if e.readOnly && idx >= 0 {
		pos := e.codes[idx].pos + markerLen(e.codes[idx].ms)
		e.selStart, e.selEnd = pos, pos
	}
	return true
}

// TextBetweenTimeCodes returns the text spanning [start, end] media times,
// along with the actual code times that bound it.
func (e *Editor) TextBetweenTimeCodes(start, end int) (actualStart, actualEnd int, text string) {
	return extractRange(e.text, e.codes, start, end)
}

// ExtractRange returns the text of raw transcript source spanning
// [start, end] media times, along with the actual code times bounding it.
func ExtractRange(text string, start, end int) (actualStart, actualEnd int, out string) {
	return extractRange(text, parseTimeCodes(text), start, end)
}

func extractRange(text string, codes []timeCode, start, end int) (actualStart, actualEnd int, out string) {
	from, to := 0, len(text)
	for _, tc := range codes {
		if tc.ms <= start {
			actualStart = tc.ms
			from = tc.pos + markerLen(tc.ms)
		}
		if tc.ms >= end {
			actualEnd = tc.ms
			to = tc.pos
			break
		}
	}
	if from > to {
		from = to
	}
	return actualStart, actualEnd, text[from:to]
}

// InsertTimeCode inserts a time-code marker for ms at the caret. It only
// applies in edit mode and only at a caret, never over a selection.
func (e *Editor) InsertTimeCode(ms int) {
	if e.readOnly || e.selStart != e.selEnd {
		return
	}
	marker := fmt.Sprintf("[tc:%d]", ms)
	e.text = e.text[:e.selStart] + marker + e.text[e.selStart:]
	e.codes = parseTimeCodes(e.text)
	e.selStart += len(marker)
	e.selEnd = e.selStart
	e.modified = true
}

// Save persists the buffer through the store, serializing save/lock/unlock
// per editor. A validation failure leaves the buffer modified so the user
// can correct and retry.
func (e *Editor) Save() error {
	if e.rec == nil {
		return nil
	}
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.rec.Text = e.text
	if e.rec.Number != 0 {
		if err := e.saver.LockTranscript(e.rec.Number, e.rec.LastSaveTime); err != nil {
			return fmt.Errorf("lock transcript: %w", err)
		}
		defer e.saver.UnlockTranscript(e.rec.Number)
	}
	if err := e.saver.SaveTranscript(e.rec); err != nil {
		return err
	}
	e.modified = false
	return nil
}

// PlainText returns the buffer with all time-code markers stripped.
func (e *Editor) PlainText() string {
	return timeCodeRe.ReplaceAllString(e.text, "")
}

// Window chrome accessors used by the coordinator.

func (e *Editor) Title() string                { return e.title }
func (e *Editor) SetTitle(title string)        { e.title = title }
func (e *Editor) WindowNumber() int            { return e.windowNumber }
func (e *Editor) SetWindowNumber(n int)        { e.windowNumber = n }
func (e *Editor) Bounds() layout.Rect          { return e.bounds }
func (e *Editor) SetBounds(r layout.Rect)      { e.bounds = r }
func (e *Editor) Visible() bool                { return e.visible }
func (e *Editor) Show(visible bool)            { e.visible = visible }
func (e *Editor) SelectionLabel() string       { return e.selectionLabel }
func (e *Editor) SetSelectionLabel(lbl string) { e.selectionLabel = lbl }
func (e *Editor) Focused() bool                { return e.focused }
func (e *Editor) Focus()                       { e.focused = true }
func (e *Editor) Blur()                        { e.focused = false }

// Close hides the editor and drops its document. The surface is not
// reusable afterwards.
func (e *Editor) Close() {
	e.visible = false
	e.Clear()
}

func parseTimeCodes(text string) []timeCode {
	var codes []timeCode
	for _, m := range timeCodeRe.FindAllStringSubmatchIndex(text, -1) {
		ms, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		codes = append(codes, timeCode{pos: m[0], ms: ms})
	}
	return codes
}

func markerLen(ms int) int {
	return len("[tc:]") + len(strconv.Itoa(ms))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatTime renders a millisecond offset as h:mm:ss.t for selection labels.
func FormatTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	tenths := (ms % 1000) / 100
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d:%02d.%d", secs/3600, (secs/60)%60, secs%60, tenths)
}

// StripTimeCodes removes all time-code markers from text.
func StripTimeCodes(text string) string {
	return timeCodeRe.ReplaceAllString(text, "")
}
