package app

import (
	"fmt"

	"github.com/UtahDave/Transana/internal/layout"
	"github.com/UtahDave/Transana/internal/propagate"
	"github.com/UtahDave/Transana/internal/store"
)

// The coordinator drives its surfaces through narrow interfaces. In the
// TUI those surfaces are plain state holders; View reads them each frame.

type videoPanel struct {
	bounds  layout.Rect
	visible bool
	title   string
}

func (v *videoPanel) Bounds() layout.Rect     { return v.bounds }
func (v *videoPanel) SetBounds(r layout.Rect) { v.bounds = r }
func (v *videoPanel) Show(vis bool)           { v.visible = vis }
func (v *videoPanel) SetTitle(t string)       { v.title = t }

type vizPanel struct {
	bounds   layout.Rect
	visible  bool
	waveform string
	startMs  int
	lengthMs int
	position int
}

func (v *vizPanel) LoadWaveform(path string, startMs, lengthMs int) {
	v.waveform = path
	v.startMs = startMs
	v.lengthMs = lengthMs
	v.position = startMs
}

func (v *vizPanel) UpdatePosition(ms int) { v.position = ms }

func (v *vizPanel) Clear() {
	v.waveform = ""
	v.startMs, v.lengthMs, v.position = 0, 0, 0
}

func (v *vizPanel) Bounds() layout.Rect     { return v.bounds }
func (v *vizPanel) SetBounds(r layout.Rect) { v.bounds = r }
func (v *vizPanel) Show(vis bool)           { v.visible = vis }

type dataPanel struct {
	bounds  layout.Rect
	visible bool

	series       *store.Series
	episode      *store.Episode
	clips        []store.Clip
	rangeMs      int
	keywords     []string
	selectedPath string
	selectedClip int64
}

func (d *dataPanel) ClearTabs() {
	d.series, d.episode = nil, nil
	d.clips = nil
	d.keywords = nil
	d.selectedPath, d.selectedClip = "", 0
}

func (d *dataPanel) ShowEpisodeClips(ser *store.Series, ep *store.Episode, clips []store.Clip) {
	d.series, d.episode, d.clips = ser, ep, clips
}

func (d *dataPanel) RefreshSelectedRange(ms int) { d.rangeMs = ms }
func (d *dataPanel) ShowKeywords(kws []string)   { d.keywords = kws }

func (d *dataPanel) SelectClipNode(path string, clipNum int64) {
	d.selectedPath, d.selectedClip = path, clipNum
}

func (d *dataPanel) Bounds() layout.Rect     { return d.bounds }
func (d *dataPanel) SetBounds(r layout.Rect) { d.bounds = r }
func (d *dataPanel) Show(vis bool)           { d.visible = vis }

type menuPanel struct {
	bounds  layout.Rect
	visible bool

	transcriptOptions bool
	editOptions       bool
	mode              layout.Mode
}

func (m *menuPanel) SetTranscriptOptions(on bool)  { m.transcriptOptions = on }
func (m *menuPanel) SetEditOptions(on bool)        { m.editOptions = on }
func (m *menuPanel) PresentationMode() layout.Mode { return m.mode }
func (m *menuPanel) Bounds() layout.Rect           { return m.bounds }
func (m *menuPanel) SetBounds(r layout.Rect)       { m.bounds = r }
func (m *menuPanel) Show(vis bool)                 { m.visible = vis }

func (m *menuPanel) cycleMode() {
	switch m.mode {
	case layout.ModeOff:
		m.mode = layout.ModeVideoOnly
	case layout.ModeVideoOnly:
		m.mode = layout.ModeVideoAndTranscript
	default:
		m.mode = layout.ModeOff
	}
}

// statusPrompter answers the coordinator's modal prompts without blocking
// the event loop: saves are confirmed automatically and messages queue up
// for the status and error lines.
type statusPrompter struct {
	errors []string
	infos  []string
}

func (p *statusPrompter) ConfirmSave(name string) bool {
	p.infos = append(p.infos, "Saved "+name)
	return true
}

func (p *statusPrompter) Error(msg string) { p.errors = append(p.errors, msg) }
func (p *statusPrompter) Info(msg string)  { p.infos = append(p.infos, msg) }

func (p *statusPrompter) OfferFileRelocate(path string) {
	p.errors = append(p.errors, fmt.Sprintf("Locate the media file for %q and update the video root", path))
}

func (p *statusPrompter) takeError() string {
	if len(p.errors) == 0 {
		return ""
	}
	msg := p.errors[0]
	p.errors = p.errors[1:]
	return msg
}

func (p *statusPrompter) takeInfo() string {
	if len(p.infos) == 0 {
		return ""
	}
	msg := p.infos[0]
	p.infos = p.infos[1:]
	return msg
}

// statusConfirmer accepts every propagation target and reports the summary
// through the prompter's info line.
type statusConfirmer struct {
	prompt *statusPrompter
}

func (s *statusConfirmer) ConfirmClipUpdate(clipID, newText string) propagate.Decision {
	return propagate.AcceptAll
}

func (s *statusConfirmer) Summary(r propagate.Result) {
	msg := fmt.Sprintf("Propagated changes to %d clip(s), %d skipped", r.Updated, r.Skipped)
	if len(r.Failed) > 0 {
		msg += fmt.Sprintf(", %d failed", len(r.Failed))
	}
	s.prompt.Info(msg)
}
