package session

import (
	"github.com/UtahDave/Transana/internal/layout"
	"github.com/UtahDave/Transana/internal/media"
)

// UpdatePlayState reacts to transport state changes. Entering playback in a
// presentation mode snapshots the full five-window layout once and applies
// the reduced one; a second play event while the snapshot is held changes
// nothing. Stopping restores the snapshot exactly and releases it, except
// while play-all keeps playback hopping between clips.
func (c *Coordinator) UpdatePlayState(state media.State) {
	if c.shuttingDown {
		return
	}

	switch state {
	case media.StateStopped:
		if c.playAllActive {
			return
		}
		if c.saved != nil {
			c.restoreLayout()
		}
		c.RestoreAllCursors()

	case media.StatePlaying:
		mode := c.menu.PresentationMode()
		if mode == layout.ModeOff {
			return
		}
		if c.saved == nil {
			c.saved = c.snapshotLayout()
		}
		c.applyPresentation(mode)
	}
}

// SetPlayAllActive marks a play-all run in progress. Stop events during the
// run do not leave presentation mode.
func (c *Coordinator) SetPlayAllActive(active bool) { c.playAllActive = active }

func (c *Coordinator) snapshotLayout() *layout.Snapshot {
	snap := &layout.Snapshot{
		Menu:          c.menu.Bounds(),
		Visualization: c.viz.Bounds(),
		Video:         c.video.Bounds(),
		Data:          c.data.Bounds(),
	}
	for _, w := range c.windows {
		snap.Transcripts = append(snap.Transcripts, w.Surface.Bounds())
	}
	return snap
}

func (c *Coordinator) restoreLayout() {
	snap := c.saved
	c.saved = nil

	c.menu.SetBounds(snap.Menu)
	c.menu.Show(true)
	c.viz.SetBounds(snap.Visualization)
	c.viz.Show(true)
	c.video.SetBounds(snap.Video)
	c.video.Show(true)
	c.data.SetBounds(snap.Data)
	c.data.Show(true)
	for i, w := range c.windows {
		if i < len(snap.Transcripts) {
			w.Surface.SetBounds(snap.Transcripts[i])
		}
		w.Surface.Show(true)
	}
}

func (c *Coordinator) applyPresentation(mode layout.Mode) {
	c.menu.Show(false)
	c.viz.Show(false)
	c.data.Show(false)

	switch mode {
	case layout.ModeVideoOnly:
		for _, w := range c.windows {
			w.Surface.Show(false)
		}
		c.video.SetBounds(layout.VideoOnly(c.screen))
		c.video.Show(true)

	case layout.ModeVideoAndTranscript:
		videoRect, transcriptRect := layout.VideoAndTranscript(c.screen)
		c.video.SetBounds(videoRect)
		c.video.Show(true)
		for i, w := range c.windows {
			if i == 0 {
				w.Surface.SetBounds(transcriptRect)
				w.Surface.Show(true)
			} else {
				w.Surface.Show(false)
			}
		}
	}
}
