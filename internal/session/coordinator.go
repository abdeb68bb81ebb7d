package session

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/UtahDave/Transana/internal/config"
	"github.com/UtahDave/Transana/internal/layout"
	"github.com/UtahDave/Transana/internal/store"
	"github.com/UtahDave/Transana/internal/transcript"
)

// Coordinator mediates between the media transport, the transcript windows,
// the visualization, the data browser, and the menu. Surfaces hold no
// cross-surface state; everything that spans windows lives here.
type Coordinator struct {
	media     Media
	video     VideoSurface
	viz       VisualizationSurface
	data      DataSurface
	menu      MenuSurface
	prompt    Prompter
	lib       Library
	propagate PropagationTool

	newSurface func() TranscriptSurface
	clipWrite  func(text string) error
	settings   *config.Config
	screen     layout.Rect

	windows []*Window
	active  int
	subject Subject

	videoFile string
	selStart  int
	selEnd    int

	// presentation-mode snapshot; non-nil while a reduced layout is up
	saved *layout.Snapshot

	playAllActive bool
	shuttingDown  bool
	pending       []func()
}

// Options collects the coordinator's collaborators and settings.
type Options struct {
	Media         Media
	Video         VideoSurface
	Visualization VisualizationSurface
	Data          DataSurface
	Menu          MenuSurface
	Prompt        Prompter
	Library       Library
	Propagation   PropagationTool

	// NewSurface creates one transcript window. Called once at startup for
	// the primary window and again for every additional transcript.
	NewSurface func() TranscriptSurface

	Settings *config.Config
	Screen   layout.Rect

	// ClipboardWrite overrides the system clipboard. Nil uses it.
	ClipboardWrite func(text string) error
}

// New builds a coordinator with a single empty primary transcript window.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		media:      opts.Media,
		video:      opts.Video,
		viz:        opts.Visualization,
		data:       opts.Data,
		menu:       opts.Menu,
		prompt:     opts.Prompt,
		lib:        opts.Library,
		propagate:  opts.Propagation,
		newSurface: opts.NewSurface,
		clipWrite:  opts.ClipboardWrite,
		settings:   opts.Settings,
		screen:     opts.Screen,
	}
	if c.clipWrite == nil {
		c.clipWrite = clipboard.WriteAll
	}

	primary := c.newSurface()
	primary.SetWindowNumber(0)
	primary.SetTitle("Transcript")
	primary.Show(true)
	c.windows = []*Window{{Surface: primary}}
	c.active = 0
	return c
}

// ActiveIndex returns the index of the active transcript window, or -1 if
// no windows exist.
func (c *Coordinator) ActiveIndex() int {
	if len(c.windows) == 0 {
		return -1
	}
	return c.active
}

func (c *Coordinator) WindowCount() int   { return len(c.windows) }
func (c *Coordinator) Windows() []*Window { return c.windows }
func (c *Coordinator) Subject() Subject   { return c.subject }

// ActiveWindow returns the active window, or nil when none exist.
func (c *Coordinator) ActiveWindow() *Window {
	if c.active < 0 || c.active >= len(c.windows) {
		return nil
	}
	return c.windows[c.active]
}

// SetActiveTranscript changes which window is active. The active window's
// title is decorated when more than one window is open; the menu's edit
// options track the new window's edit mode. During shutdown the side
// effects are skipped because surfaces may already be torn down.
func (c *Coordinator) SetActiveTranscript(index int) {
	if len(c.windows) == 0 {
		c.active = -1
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(c.windows) {
		index = len(c.windows) - 1
	}
	if !c.shuttingDown {
		for x, w := range c.windows {
			title := w.Surface.Title()
			switch {
			case x != index && isDecorated(title):
				w.Surface.SetTitle(undecorate(title))
			case x == index && isDecorated(title) && len(c.windows) == 1:
				w.Surface.SetTitle(undecorate(title))
			case x == index && !isDecorated(title) && len(c.windows) > 1:
				w.Surface.SetTitle("** " + title + " **")
			}
		}
		c.menu.SetEditOptions(!c.windows[index].Surface.ReadOnly())
	}
	c.active = index
}

func isDecorated(title string) bool {
	return strings.HasPrefix(title, "** ") && strings.HasSuffix(title, " **")
}

func undecorate(title string) string {
	return strings.TrimSuffix(strings.TrimPrefix(title, "** "), " **")
}

// mediaPath resolves a stored media filename against the configured video
// root. Absolute names pass through.
func (c *Coordinator) mediaPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.settings.VideoRoot, name)
}

// loadMedia opens the media file and hands the waveform to the
// visualization. Reports false when the file is missing on disk.
func (c *Coordinator) loadMedia(path string, startMs, lengthMs int) bool {
	if !c.media.Open(path) {
		c.prompt.Error(fmt.Sprintf("Media File %q cannot be found.", path))
		return false
	}
	c.viz.LoadWaveform(path, startMs, lengthMs)
	c.videoFile = path
	c.video.SetTitle(filepath.Base(path))
	return true
}

// LoadEpisodeTranscript loads an episode transcript into the active window.
// When the active window is the primary one the whole session is reset
// first; loading into a secondary window leaves the other windows alone.
// The transcript is shown even when the media file is missing, in which
// case ErrMediaNotFound is returned and the session subject is unchanged.
func (c *Coordinator) LoadEpisodeTranscript(seriesName, episodeName, transcriptName string) error {
	if w := c.ActiveWindow(); w != nil && w.Surface.Modified() {
		c.SaveTranscript(true, true, c.active)
	}
	resetAll := c.active == 0
	c.ClearAllWindows(resetAll)

	ser, err := c.lib.SeriesByName(seriesName)
	if err != nil {
		c.prompt.Error(err.Error())
		return err
	}
	ep, err := c.lib.EpisodeByName(ser.Number, episodeName)
	if err != nil {
		c.prompt.Error(err.Error())
		return err
	}
	tr, err := c.lib.TranscriptByName(transcriptName, ep.Number)
	if err != nil {
		c.prompt.Error(err.Error())
		return err
	}

	c.selStart, c.selEnd = 0, 0
	c.data.ClearTabs()

	w := c.windows[c.active]
	w.Surface.SetTitle(fmt.Sprintf("Transcript %q for Series %q, Episode %q", tr.ID, ser.ID, ep.ID))
	w.Surface.Load(tr)
	w.RecordNum = tr.Number
	// Setting the title above wiped any active marker; put it back.
	c.SetActiveTranscript(c.active)

	path := c.mediaPath(ep.MediaFilename)
	if !c.loadMedia(path, 0, ep.TapeLength) {
		if c.settings.SingleUser {
			c.prompt.OfferFileRelocate(path)
		}
		return fmt.Errorf("episode %q: %w", ep.ID, ErrMediaNotFound)
	}

	c.subject = Subject{Kind: SubjectEpisode, Episode: ep}
	c.SetVideoSelection(0, 0)

	clips, err := c.lib.ClipsForEpisode(ep.Number)
	if err != nil {
		clips = nil
	}
	c.data.ShowEpisodeClips(ser, ep, clips)
	c.data.RefreshSelectedRange(0)
	c.menu.SetTranscriptOptions(true)

	// First load of an episode whose length was never recorded: take the
	// duration the transport reports and write it back, best effort.
	if ep.TapeLength <= 0 {
		if d := c.media.Duration(); d > 0 {
			c.persistEpisodeDuration(ep, d)
		}
	}
	return nil
}

// LoadClip loads a clip: its media segment plus one window per transcript
// reference, in order. The session is always fully reset first. On a
// missing media file the data tabs are cleared and the subject is left
// unset, unlike the episode path which keeps its transcript up.
func (c *Coordinator) LoadClip(clipNum int64) error {
	if w := c.ActiveWindow(); w != nil && w.Surface.Modified() {
		c.SaveTranscript(true, true, c.active)
	}
	c.SetActiveTranscript(0)
	c.ClearAllWindows(true)

	clip, err := c.lib.ClipByNum(clipNum)
	if err != nil {
		c.prompt.Error(err.Error())
		return err
	}
	if len(clip.Transcripts) == 0 {
		err := fmt.Errorf("clip %q has no transcripts", clip.ID)
		c.prompt.Error(err.Error())
		return err
	}
	nodeString, err := c.lib.CollectionNodeString(clip.CollectionNum)
	if err != nil {
		nodeString = ""
	}

	c.selStart, c.selEnd = clip.ClipStart, clip.ClipStop

	path := c.mediaPath(clip.MediaFilename)
	if !c.loadMedia(path, clip.ClipStart, clip.ClipStop-clip.ClipStart) {
		c.data.ClearTabs()
		if c.settings.SingleUser {
			c.prompt.OfferFileRelocate(path)
		}
		return fmt.Errorf("clip %q: %w", clip.ID, ErrMediaNotFound)
	}

	c.subject = Subject{Kind: SubjectClip, Clip: clip}
	c.SetVideoSelection(clip.ClipStart, clip.ClipStop)

	title := fmt.Sprintf("Transcript for Collection %q, Clip %q", nodeString, clip.ID)
	first := clip.Transcripts[0]
	w := c.windows[0]
	w.Surface.SetTitle(title)
	w.Surface.Load(&first)
	w.RecordNum = first.Number

	for i := 1; i < len(clip.Transcripts); i++ {
		tr := clip.Transcripts[i]
		c.openTranscriptWindow(&tr, title)
	}

	c.data.ClearTabs()
	c.data.ShowKeywords(clip.Keywords)
	c.data.SelectClipNode(nodeString, clip.Number)
	c.menu.SetTranscriptOptions(true)
	c.SetActiveTranscript(0)
	return nil
}

// OpenAdditionalTranscript fetches a transcript by number and opens it in
// a new window alongside the existing ones. isEpisode selects the full
// episode-style window title.
func (c *Coordinator) OpenAdditionalTranscript(transcriptNum int64, isEpisode bool) (int, error) {
	tr, err := c.lib.TranscriptByNum(transcriptNum)
	if err != nil {
		c.prompt.Error(err.Error())
		return -1, err
	}
	title := "Transcript " + tr.ID
	if isEpisode {
		if ep, err := c.lib.EpisodeByNum(tr.EpisodeNum); err == nil {
			if ser, err := c.lib.SeriesByNum(ep.SeriesNum); err == nil {
				title = fmt.Sprintf("Transcript %q for Series %q, Episode %q", tr.ID, ser.ID, ep.ID)
			}
		}
	}
	return c.openTranscriptWindow(tr, title), nil
}

// openTranscriptWindow appends a new window for an already loaded
// transcript record and makes it active.
func (c *Coordinator) openTranscriptWindow(tr *store.Transcript, title string) int {
	surf := c.newSurface()
	c.windows = append(c.windows, &Window{Surface: surf, RecordNum: tr.Number})
	idx := len(c.windows) - 1
	surf.SetWindowNumber(idx)
	surf.SetTitle(title)
	surf.Load(tr)

	if c.settings.AutoArrange {
		c.autoArrange()
	} else {
		prev := c.windows[idx-1].Surface.Bounds()
		surf.SetBounds(layout.Cascade(prev))
	}
	surf.Show(true)
	surf.UpdatePosition(c.media.Position())
	c.SetActiveTranscript(idx)
	return idx
}

// CloseAdditionalTranscript closes one window and renumbers the rest so
// window numbers stay contiguous. The previously active window regains
// focus. The primary window cannot be closed while it is the only one; if
// index 0 is closed, the next window inherits its screen position.
func (c *Coordinator) CloseAdditionalTranscript(index int) {
	if index < 0 || index >= len(c.windows) || len(c.windows) <= 1 {
		return
	}

	prevActive := 0
	if c.active != index {
		prevActive = c.active
		c.SetActiveTranscript(index)
	}
	// The last window's index shifts down once the closing window is gone.
	if prevActive == len(c.windows)-1 {
		prevActive = c.active - 1
	}

	c.SaveTranscript(true, true, index)

	if index == 0 {
		pos := c.windows[0].Surface.Bounds()
		next := c.windows[1].Surface.Bounds()
		c.windows[1].Surface.SetBounds(layout.Rect{Left: pos.Left, Top: pos.Top, Width: next.Width, Height: next.Height})
	}

	c.windows[index].Surface.Close()
	c.windows = append(c.windows[:index], c.windows[index+1:]...)
	for i, w := range c.windows {
		w.Surface.SetWindowNumber(i)
	}
	c.autoArrange()

	if prevActive < 0 {
		prevActive = 0
	}
	if prevActive >= len(c.windows) {
		prevActive = len(c.windows) - 1
	}
	c.windows[prevActive].Surface.Focus()
	c.SetActiveTranscript(prevActive)
}

// autoArrange divides the space below the first window's top edge evenly
// among all windows.
func (c *Coordinator) autoArrange() {
	if !c.settings.AutoArrange || len(c.windows) == 0 {
		return
	}
	rects := layout.AutoArrange(c.windows[0].Surface.Bounds(), c.screen, len(c.windows))
	for i, r := range rects {
		c.windows[i].Surface.SetBounds(r)
	}
}

// SaveTranscript saves one window's transcript if it has unsaved edits.
// index -1 means the active window. With promptUser set, the user is asked
// first; declining with clearDoc set discards the edits. Returns false only
// when the user declined the save.
func (c *Coordinator) SaveTranscript(promptUser, clearDoc bool, index int) bool {
	if index == -1 {
		index = c.active
	}
	if index < 0 || index >= len(c.windows) {
		return true
	}
	w := c.windows[index]
	if !w.Surface.Modified() {
		return true
	}

	doSave := true
	if promptUser {
		name := "this Transcript"
		if rec := w.Surface.Record(); rec != nil {
			if rec.ClipNum > 0 {
				name = "this Clip Transcript"
			} else {
				name = fmt.Sprintf("Transcript %q", rec.ID)
			}
		}
		doSave = c.prompt.ConfirmSave(name)
		c.SetActiveTranscript(index)
	}
	if doSave {
		if err := w.Surface.Save(); err != nil {
			c.prompt.Error(err.Error())
		}
		return true
	}
	if clearDoc {
		w.Surface.Clear()
	}
	return false
}

// SaveAllCursors snapshots the cursor in every window.
func (c *Coordinator) SaveAllCursors() {
	for _, w := range c.windows {
		w.Surface.SaveCursor()
	}
}

// RestoreAllCursors restores every window's saved cursor, where one exists.
func (c *Coordinator) RestoreAllCursors() {
	for _, w := range c.windows {
		if w.Surface.HasSavedCursor() {
			w.Surface.RestoreCursor()
		}
	}
}

// ClearAllWindows empties the active transcript window. With resetSession
// set it tears the whole session down: secondary windows close (with save
// prompts), the media and visualization clear, the data tabs reset, and
// the subject becomes none.
func (c *Coordinator) ClearAllWindows(resetSession bool) {
	c.SaveTranscript(true, false, -1)
	if resetSession {
		c.SetActiveTranscript(0)
	}

	if w := c.ActiveWindow(); w != nil {
		w.RecordNum = 0
		w.Surface.Clear()
		w.Surface.SetTitle("Transcript")
	}

	if !resetSession {
		return
	}

	c.menu.SetTranscriptOptions(false)
	c.viz.Clear()
	c.media.Clear()
	c.video.SetTitle("Media")
	c.videoFile = ""
	// A reset with no follow-up load must not keep the old range.
	c.selStart, c.selEnd = 0, 0

	for len(c.windows) > 1 {
		last := len(c.windows) - 1
		c.SaveTranscript(true, false, last)
		c.windows[last].Surface.Close()
		c.windows = c.windows[:last]
	}
	c.windows[0].Surface.SetWindowNumber(0)
	c.autoArrange()

	c.data.ClearTabs()
	c.subject = Subject{}
}

// CopySelection puts the active window's selected text, time codes
// stripped, onto the clipboard.
func (c *Coordinator) CopySelection() error {
	w := c.ActiveWindow()
	if w == nil {
		return nil
	}
	text := transcript.StripTimeCodes(w.Surface.SelectedText())
	if text == "" {
		return nil
	}
	if err := c.clipWrite(text); err != nil {
		return fmt.Errorf("copy selection: %w", err)
	}
	return nil
}

// InsertTimeCode inserts a time code for the current playback position into
// every window that is in edit mode. Surfaces ignore the insert when a
// range is selected.
func (c *Coordinator) InsertTimeCode() {
	pos := c.media.Position()
	for _, w := range c.windows {
		if !w.Surface.ReadOnly() {
			w.Surface.InsertTimeCode(pos)
		}
	}
}

// PropagateChanges pushes a saved transcript's changes into derived
// records. The transcript must be saved first; a declined save aborts.
func (c *Coordinator) PropagateChanges(windowIndex int) error {
	if windowIndex < 0 || windowIndex >= len(c.windows) {
		return nil
	}
	if !c.SaveTranscript(true, false, -1) {
		c.prompt.Info("You must save the transcript if you want to propagate the changes.")
		return nil
	}

	switch c.subject.Kind {
	case SubjectEpisode:
		return c.propagate.PropagateEpisode(c.subject.Episode, c.windows[windowIndex].RecordNum)
	case SubjectClip:
		// Keywords may have changed since the clip was loaded; reread them.
		fresh, err := c.lib.ClipByNum(c.subject.Clip.Number)
		if err != nil {
			return fmt.Errorf("reload clip: %w", err)
		}
		text := c.windows[windowIndex].Surface.Text()
		return c.propagate.PropagateClip(c.subject.Clip, windowIndex, text, fresh.Keywords)
	}
	return nil
}

// Shutdown marks the session as closing. Title decoration and menu updates
// stop, and queued deferred work is discarded.
func (c *Coordinator) Shutdown() {
	c.shuttingDown = true
	c.pending = nil
}

// ShuttingDown reports whether Shutdown has been called.
func (c *Coordinator) ShuttingDown() bool { return c.shuttingDown }

// persistEpisodeDuration writes a discovered media duration back to the
// episode record. Lock contention or stale data just skips the write.
func (c *Coordinator) persistEpisodeDuration(ep *store.Episode, d int) {
	if err := c.lib.LockEpisode(ep.Number, ep.LastSaveTime); err != nil {
		return
	}
	defer c.lib.UnlockEpisode(ep.Number)
	ep.TapeLength = d
	_ = c.lib.SaveEpisode(ep)
}
