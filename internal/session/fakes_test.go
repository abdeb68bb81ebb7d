package session

import (
	"fmt"
	"time"

	"github.com/UtahDave/Transana/internal/layout"
	"github.com/UtahDave/Transana/internal/media"
	"github.com/UtahDave/Transana/internal/store"
)

type fakeSurface struct {
	rec          *store.Transcript
	text         string
	selStart     int
	selEnd       int
	timeStart    int
	timeEnd      int
	selectedText string

	readOnly bool
	modified bool

	savedCursor     bool
	restoredCursor  int
	title           string
	windowNumber    int
	label           string
	bounds          layout.Rect
	visible         bool
	focused         bool
	closed          bool
	posUpdated      bool
	scrolledTo      int
	selectedThrough int
	saveCalls       int
	clearCalls      int
	saveErr         error
	inserted        []int
}

func (f *fakeSurface) Load(rec *store.Transcript) {
	f.rec = rec
	f.text = rec.Text
	f.readOnly = true
	f.modified = false
}

func (f *fakeSurface) Clear() {
	f.rec = nil
	f.text = ""
	f.modified = false
	f.clearCalls++
}

func (f *fakeSurface) Record() *store.Transcript { return f.rec }
func (f *fakeSurface) Text() string              { return f.text }

func (f *fakeSurface) Selection() (int, int)  { return f.selStart, f.selEnd }
func (f *fakeSurface) SetSelection(s, e int)  { f.selStart, f.selEnd = s, e }
func (f *fakeSurface) SelectedText() string   { return f.selectedText }
func (f *fakeSurface) SelectedTimeRange() (int, int) {
	return f.timeStart, f.timeEnd
}
func (f *fakeSurface) ScrollToTime(ms int)      { f.scrolledTo = ms }
func (f *fakeSurface) SelectThroughTime(ms int) { f.selectedThrough = ms }
func (f *fakeSurface) UpdatePosition(ms int) bool {
	changed := f.posUpdated
	f.posUpdated = false
	return changed
}
func (f *fakeSurface) InsertTimeCode(ms int) { f.inserted = append(f.inserted, ms) }

func (f *fakeSurface) ReadOnly() bool { return f.readOnly }
func (f *fakeSurface) Modified() bool { return f.modified }
func (f *fakeSurface) Save() error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.modified = false
	return nil
}

func (f *fakeSurface) SaveCursor()         { f.savedCursor = true }
func (f *fakeSurface) HasSavedCursor() bool { return f.savedCursor }
func (f *fakeSurface) RestoreCursor()      { f.restoredCursor++ }

func (f *fakeSurface) Title() string               { return f.title }
func (f *fakeSurface) SetTitle(t string)           { f.title = t }
func (f *fakeSurface) SetWindowNumber(n int)       { f.windowNumber = n }
func (f *fakeSurface) SelectionLabel() string      { return f.label }
func (f *fakeSurface) SetSelectionLabel(l string)  { f.label = l }
func (f *fakeSurface) Bounds() layout.Rect         { return f.bounds }
func (f *fakeSurface) SetBounds(r layout.Rect)     { f.bounds = r }
func (f *fakeSurface) Show(v bool)                 { f.visible = v }
func (f *fakeSurface) Focus()                      { f.focused = true }
func (f *fakeSurface) Close()                      { f.closed = true; f.visible = false }

type fakeMedia struct {
	opened     string
	openOK     bool
	state      media.State
	pos        int
	dur        int
	startPoint int
	endPoint   int
	setPosTo   []int
}

func (m *fakeMedia) Open(path string) bool {
	if !m.openOK {
		return false
	}
	m.opened = path
	m.state = media.StateStopped
	m.pos = 0
	return true
}

func (m *fakeMedia) Clear() {
	m.opened = ""
	m.state = media.StateLoading
	m.pos, m.startPoint, m.endPoint = 0, 0, 0
}

func (m *fakeMedia) Filename() string     { return m.opened }
func (m *fakeMedia) State() media.State   { return m.state }
func (m *fakeMedia) Play()                { m.state = media.StatePlaying }
func (m *fakeMedia) Pause()               { m.state = media.StatePaused }
func (m *fakeMedia) Stop()                { m.state = media.StateStopped; m.pos = m.startPoint }
func (m *fakeMedia) Position() int        { return m.pos }
func (m *fakeMedia) SetPosition(ms int)   { m.pos = ms; m.setPosTo = append(m.setPosTo, ms) }
func (m *fakeMedia) Duration() int        { return m.dur }
func (m *fakeMedia) SetDuration(ms int)   { m.dur = ms }
func (m *fakeMedia) StartPoint() int      { return m.startPoint }
func (m *fakeMedia) SetStartPoint(ms int) { m.startPoint = ms }
func (m *fakeMedia) EndPoint() int        { return m.endPoint }
func (m *fakeMedia) SetEndPoint(ms int)   { m.endPoint = ms }

type fakeVideo struct {
	bounds  layout.Rect
	visible bool
	title   string
}

func (v *fakeVideo) Bounds() layout.Rect     { return v.bounds }
func (v *fakeVideo) SetBounds(r layout.Rect) { v.bounds = r }
func (v *fakeVideo) Show(vis bool)           { v.visible = vis }
func (v *fakeVideo) SetTitle(t string)       { v.title = t }

type fakeViz struct {
	bounds    layout.Rect
	visible   bool
	loaded    string
	positions []int
	cleared   int
}

func (v *fakeViz) LoadWaveform(path string, startMs, lengthMs int) { v.loaded = path }
func (v *fakeViz) UpdatePosition(ms int)                           { v.positions = append(v.positions, ms) }
func (v *fakeViz) Clear()                                          { v.cleared++; v.loaded = "" }
func (v *fakeViz) Bounds() layout.Rect                             { return v.bounds }
func (v *fakeViz) SetBounds(r layout.Rect)                         { v.bounds = r }
func (v *fakeViz) Show(vis bool)                                   { v.visible = vis }

type fakeData struct {
	bounds       layout.Rect
	visible      bool
	clearedTabs  int
	episodeShown *store.Episode
	refreshes    []int
	keywords     []string
	selectedClip int64
}

func (d *fakeData) ClearTabs() { d.clearedTabs++; d.episodeShown = nil }
func (d *fakeData) ShowEpisodeClips(ser *store.Series, ep *store.Episode, clips []store.Clip) {
	d.episodeShown = ep
}
func (d *fakeData) RefreshSelectedRange(ms int) { d.refreshes = append(d.refreshes, ms) }
func (d *fakeData) ShowKeywords(kws []string)   { d.keywords = kws }
func (d *fakeData) SelectClipNode(path string, clipNum int64) {
	d.selectedClip = clipNum
}
func (d *fakeData) Bounds() layout.Rect     { return d.bounds }
func (d *fakeData) SetBounds(r layout.Rect) { d.bounds = r }
func (d *fakeData) Show(vis bool)           { d.visible = vis }

type fakeMenu struct {
	bounds            layout.Rect
	visible           bool
	transcriptOptions bool
	editOptions       bool
	editOptionCalls   int
	mode              layout.Mode
}

func (m *fakeMenu) SetTranscriptOptions(on bool) { m.transcriptOptions = on }
func (m *fakeMenu) SetEditOptions(on bool)       { m.editOptions = on; m.editOptionCalls++ }
func (m *fakeMenu) PresentationMode() layout.Mode { return m.mode }
func (m *fakeMenu) Bounds() layout.Rect          { return m.bounds }
func (m *fakeMenu) SetBounds(r layout.Rect)      { m.bounds = r }
func (m *fakeMenu) Show(vis bool)                { m.visible = vis }

type fakePrompter struct {
	confirmSave bool
	saveAsked   []string
	errors      []string
	infos       []string
	relocated   []string
}

func (p *fakePrompter) ConfirmSave(name string) bool {
	p.saveAsked = append(p.saveAsked, name)
	return p.confirmSave
}
func (p *fakePrompter) Error(msg string)             { p.errors = append(p.errors, msg) }
func (p *fakePrompter) Info(msg string)              { p.infos = append(p.infos, msg) }
func (p *fakePrompter) OfferFileRelocate(path string) { p.relocated = append(p.relocated, path) }

type fakeLibrary struct {
	series      map[int64]*store.Series
	episodes    map[int64]*store.Episode
	transcripts map[int64]*store.Transcript
	clips       map[int64]*store.Clip
	nodeStrings map[int64]string

	savedEpisodes []*store.Episode
	lockErr       error
}

func (l *fakeLibrary) SeriesByName(name string) (*store.Series, error) {
	for _, s := range l.series {
		if s.ID == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("series %q: %w", name, store.ErrNotFound)
}

func (l *fakeLibrary) SeriesByNum(num int64) (*store.Series, error) {
	if s, ok := l.series[num]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("series %d: %w", num, store.ErrNotFound)
}

func (l *fakeLibrary) EpisodeByName(seriesNum int64, name string) (*store.Episode, error) {
	for _, e := range l.episodes {
		if e.SeriesNum == seriesNum && e.ID == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("episode %q: %w", name, store.ErrNotFound)
}

func (l *fakeLibrary) EpisodeByNum(num int64) (*store.Episode, error) {
	if e, ok := l.episodes[num]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("episode %d: %w", num, store.ErrNotFound)
}

func (l *fakeLibrary) TranscriptByName(name string, episodeNum int64) (*store.Transcript, error) {
	for _, t := range l.transcripts {
		if t.ID == name && t.EpisodeNum == episodeNum {
			return t, nil
		}
	}
	return nil, fmt.Errorf("transcript %q: %w", name, store.ErrNotFound)
}

func (l *fakeLibrary) TranscriptByNum(num int64) (*store.Transcript, error) {
	if t, ok := l.transcripts[num]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("transcript %d: %w", num, store.ErrNotFound)
}

func (l *fakeLibrary) ClipByNum(num int64) (*store.Clip, error) {
	if c, ok := l.clips[num]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("clip %d: %w", num, store.ErrNotFound)
}

func (l *fakeLibrary) ClipsForEpisode(episodeNum int64) ([]store.Clip, error) {
	var out []store.Clip
	for _, c := range l.clips {
		if c.EpisodeNum == episodeNum {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (l *fakeLibrary) CollectionNodeString(num int64) (string, error) {
	if s, ok := l.nodeStrings[num]; ok {
		return s, nil
	}
	return "", fmt.Errorf("collection %d: %w", num, store.ErrNotFound)
}

func (l *fakeLibrary) SaveEpisode(ep *store.Episode) error {
	l.savedEpisodes = append(l.savedEpisodes, ep)
	return nil
}

func (l *fakeLibrary) LockEpisode(num int64, lastSave time.Time) error { return l.lockErr }
func (l *fakeLibrary) UnlockEpisode(num int64) error                   { return nil }

type fakePropagation struct {
	episodeCalls []int64
	clipCalls    []int64
}

func (p *fakePropagation) PropagateEpisode(ep *store.Episode, transcriptNum int64) error {
	p.episodeCalls = append(p.episodeCalls, transcriptNum)
	return nil
}

func (p *fakePropagation) PropagateClip(clip *store.Clip, windowIndex int, text string, keywords []string) error {
	p.clipCalls = append(p.clipCalls, clip.Number)
	return nil
}
