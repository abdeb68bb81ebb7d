package session

import (
	"fmt"

	"github.com/UtahDave/Transana/internal/media"
	"github.com/UtahDave/Transana/internal/transcript"
)

// SetVideoSelection establishes the playback range. end <= 0 is the
// unbounded sentinel and resolves to the subject's natural end: the media
// duration for an episode, the clip stop for a clip. Read-only windows
// follow the selection when word tracking is on; every window's cursor is
// snapshotted so Stop can restore it.
func (c *Coordinator) SetVideoSelection(start, end int) {
	for _, w := range c.windows {
		if w.Surface.ReadOnly() && c.settings.WordTracking {
			w.Surface.ScrollToTime(start)
			if end > 0 {
				w.Surface.SelectThroughTime(end)
			}
		}
		w.Surface.SaveCursor()
	}

	if end <= 0 {
		if natural := c.naturalEnd(); natural > 0 {
			end = natural
		}
	}
	c.SetVideoStartPoint(start)
	c.SetVideoEndPoint(end)

	if w := c.ActiveWindow(); w != nil {
		if c.media.State() != media.StatePlaying || w.Surface.UpdatePosition(start) {
			c.data.RefreshSelectedRange(start)
		}
	}

	// Selection labels refresh after the surface has applied the selection.
	idx := c.active
	c.later(func() { c.refreshSelectionLabel(idx) })
}

// VideoSelection returns the current selection range.
func (c *Coordinator) VideoSelection() (start, end int) { return c.selStart, c.selEnd }

// SetVideoStartPoint moves the playback start. Negative clamps to zero.
func (c *Coordinator) SetVideoStartPoint(ms int) {
	if ms < 0 {
		ms = 0
	}
	c.media.SetStartPoint(ms)
	c.selStart = ms
}

// SetVideoEndPoint moves the playback end. Non-positive means unbounded.
func (c *Coordinator) SetVideoEndPoint(ms int) {
	c.media.SetEndPoint(ms)
	c.selEnd = ms
}

// naturalEnd resolves the unbounded-selection sentinel for the current
// subject. Zero means no resolution is possible.
func (c *Coordinator) naturalEnd() int {
	switch c.subject.Kind {
	case SubjectEpisode:
		if d := c.media.Duration(); d > 0 {
			return d
		}
		return c.subject.Episode.TapeLength
	case SubjectClip:
		return c.subject.Clip.ClipStop
	default:
		return 0
	}
}

// UpdateVideoPosition feeds a new playback position to every surface that
// tracks it. Called from the host's tick loop while media plays and after
// any seek.
func (c *Coordinator) UpdateVideoPosition(ms int) {
	if len(c.windows) == 0 {
		return
	}
	// The active index can briefly point past the end while windows are
	// torn down mid-update.
	if c.active >= len(c.windows) || c.active < 0 {
		c.active = 0
	}
	w := c.windows[c.active]

	if !w.Surface.HasSavedCursor() {
		if s, e := w.Surface.Selection(); s != 0 || e != 0 {
			w.Surface.SaveCursor()
		}
	}

	c.viz.UpdatePosition(ms)
	if c.media.State() != media.StatePlaying || w.Surface.UpdatePosition(ms) {
		c.data.RefreshSelectedRange(ms)
	}
	for i, win := range c.windows {
		win.Surface.UpdatePosition(ms)
		c.refreshSelectionLabel(i)
	}
}

// Play starts playback. With setback set, the position first rewinds by the
// configured transcription setback, bounded by the subject's start. An
// unbounded selection end is resolved before starting so playback knows
// where to stop.
func (c *Coordinator) Play(setback bool) {
	if w := c.ActiveWindow(); w != nil && !w.Surface.HasSavedCursor() {
		w.Surface.SaveCursor()
	}

	if setback {
		start := c.media.StartPoint()
		switch c.subject.Kind {
		case SubjectEpisode:
			start = 0
		case SubjectClip:
			start = c.subject.Clip.ClipStart
		}
		pos := c.media.Position()
		if sb := c.settings.SetbackMs(); pos-start > sb {
			c.media.SetPosition(pos - sb)
		} else {
			c.media.SetPosition(start)
		}
	}

	if c.selEnd <= 0 {
		if natural := c.naturalEnd(); natural > 0 {
			c.SetVideoEndPoint(natural)
		}
	}
	c.media.Play()
}

// Pause pauses playback in place.
func (c *Coordinator) Pause() { c.media.Pause() }

// Stop halts playback, repositions at the selection start, and restores
// every window's saved cursor.
func (c *Coordinator) Stop() {
	c.media.Stop()
	c.RestoreAllCursors()
}

// PlayPause toggles between playing and paused.
func (c *Coordinator) PlayPause(setback bool) {
	switch c.media.State() {
	case media.StatePlaying:
		c.Pause()
	case media.StatePaused, media.StateStopped:
		c.Play(setback)
	}
}

// PlayStop toggles between playing and stopped.
func (c *Coordinator) PlayStop(setback bool) {
	switch c.media.State() {
	case media.StatePlaying:
		c.Stop()
	case media.StatePaused, media.StateStopped:
		c.Play(setback)
	}
}

// MediaLength returns the playable length in milliseconds. With entire set
// it is the full media duration regardless of selection; otherwise it is
// the selection length, falling back to duration minus start when the end
// is unbounded.
func (c *Coordinator) MediaLength(entire bool) int {
	if entire {
		return c.media.Duration()
	}
	if c.selEnd > c.selStart {
		return c.selEnd - c.selStart
	}
	length := c.media.Duration() - c.selStart
	// Duration discovery: an episode loaded before its length was known
	// gets the transport's answer written back.
	if c.subject.Kind == SubjectEpisode {
		ep := c.subject.Episode
		if ep.TapeLength <= 0 && c.videoFile == c.mediaPath(ep.MediaFilename) {
			if d := c.media.Duration(); d > 0 {
				c.persistEpisodeDuration(ep, d)
			}
		}
	}
	return length
}

// selectionInfo describes one window's current selection resolved to real
// time codes.
type selectionInfo struct {
	transcriptNum int64
	start, end    int
	text          string
}

// resolveRange maps a transcript-relative time range onto real bounds. A
// zero start within a clip means the clip's start; an unresolved end means
// the clip stop or the full media length.
func (c *Coordinator) resolveRange(start, end int) (int, int) {
	if start == 0 && c.subject.Kind == SubjectClip {
		start = c.subject.Clip.ClipStart
	}
	if end <= 0 {
		if c.subject.Kind == SubjectClip {
			end = c.subject.Clip.ClipStop
		} else {
			end = c.MediaLength(true)
		}
	}
	return start, end
}

// selections gathers the resolved selection for every window. Windows with
// a caret but no range report empty text.
func (c *Coordinator) selections() []selectionInfo {
	infos := make([]selectionInfo, 0, len(c.windows))
	for _, w := range c.windows {
		start, end := w.Surface.SelectedTimeRange()
		start, end = c.resolveRange(start, end)
		var text string
		if s, e := w.Surface.Selection(); s != e {
			text = w.Surface.SelectedText()
		}
		infos = append(infos, selectionInfo{
			transcriptNum: w.RecordNum,
			start:         start,
			end:           end,
			text:          text,
		})
	}
	return infos
}

// MultiSelect mirrors the source window's selected time range into every
// other open window.
func (c *Coordinator) MultiSelect(source int) {
	if source < 0 || source >= len(c.windows) {
		return
	}
	start, end := c.windows[source].Surface.SelectedTimeRange()
	start, end = c.resolveRange(start, end)

	for i, w := range c.windows {
		if i != source {
			w.Surface.ScrollToTime(start)
			w.Surface.SelectThroughTime(end)
		}
		idx := i
		c.later(func() { c.refreshSelectionLabel(idx) })
	}
}

// MultiPlay plays the union of all windows' selections: from the earliest
// start to the latest end across every window with a non-empty selection.
func (c *Coordinator) MultiPlay() {
	c.SaveAllCursors()

	earliest := c.MediaLength(true)
	latest := 0
	for _, info := range c.selections() {
		if info.text == "" {
			continue
		}
		if info.start < earliest {
			earliest = info.start
		}
		if info.end > latest {
			latest = info.end
		}
	}
	if latest <= 0 {
		return
	}
	c.SetVideoSelection(earliest, latest)
	c.Play(false)
}

// refreshSelectionLabel recomputes one window's selection label. Runs
// deferred, so the index is re-validated against the current window list.
func (c *Coordinator) refreshSelectionLabel(index int) {
	if index < 0 || index >= len(c.windows) {
		return
	}
	w := c.windows[index]
	if s, e := w.Surface.Selection(); s == e {
		w.Surface.SetSelectionLabel("")
		return
	}
	start, end := w.Surface.SelectedTimeRange()
	start, end = c.resolveRange(start, end)
	w.Surface.SetSelectionLabel(fmt.Sprintf("Selection:  %s - %s",
		transcript.FormatTime(start), transcript.FormatTime(end)))
}

// SelectionLabel returns the active window's selection label.
func (c *Coordinator) SelectionLabel() string {
	w := c.ActiveWindow()
	if w == nil {
		return ""
	}
	c.refreshSelectionLabel(c.active)
	return w.Surface.SelectionLabel()
}
