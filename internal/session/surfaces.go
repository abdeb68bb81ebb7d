package session

import (
	"time"

	"github.com/UtahDave/Transana/internal/layout"
	"github.com/UtahDave/Transana/internal/media"
	"github.com/UtahDave/Transana/internal/store"
)

// The coordinator is the only component that talks to more than one surface
// per operation. Surfaces never talk to each other; they implement the
// narrow contracts below and are driven from here.

// TranscriptSurface is one transcript window's editing surface.
type TranscriptSurface interface {
	Load(rec *store.Transcript)
	Clear()
	Record() *store.Transcript
	Text() string

	Selection() (start, end int)
	SetSelection(start, end int)
	SelectedText() string
	SelectedTimeRange() (start, end int)
	ScrollToTime(ms int)
	SelectThroughTime(ms int)
	UpdatePosition(ms int) bool
	InsertTimeCode(ms int)

	ReadOnly() bool
	Modified() bool
	Save() error

	SaveCursor()
	HasSavedCursor() bool
	RestoreCursor()

	Title() string
	SetTitle(title string)
	SetWindowNumber(n int)
	SelectionLabel() string
	SetSelectionLabel(lbl string)
	Bounds() layout.Rect
	SetBounds(r layout.Rect)
	Show(visible bool)
	Focus()
	Close()
}

// Media is the playback transport.
type Media interface {
	Open(path string) bool
	Clear()
	Filename() string
	State() media.State
	Play()
	Pause()
	Stop()
	Position() int
	SetPosition(ms int)
	Duration() int
	SetDuration(ms int)
	StartPoint() int
	SetStartPoint(ms int)
	EndPoint() int
	SetEndPoint(ms int)
}

// VideoSurface is the video window's screen presence: geometry and
// visibility only. Playback itself goes through Media.
type VideoSurface interface {
	Bounds() layout.Rect
	SetBounds(r layout.Rect)
	Show(visible bool)
	SetTitle(title string)
}

// VisualizationSurface is the waveform/keyword display.
type VisualizationSurface interface {
	LoadWaveform(path string, startMs, lengthMs int)
	UpdatePosition(ms int)
	Clear()
	Bounds() layout.Rect
	SetBounds(r layout.Rect)
	Show(visible bool)
}

// DataSurface is the data/tree browser with its derived tabs.
type DataSurface interface {
	ClearTabs()
	ShowEpisodeClips(series *store.Series, ep *store.Episode, clips []store.Clip)
	RefreshSelectedRange(ms int)
	ShowKeywords(keywords []string)
	SelectClipNode(collectionPath string, clipNum int64)
	Bounds() layout.Rect
	SetBounds(r layout.Rect)
	Show(visible bool)
}

// MenuSurface is the menu bar: command enablement and the presentation-mode
// selection.
type MenuSurface interface {
	SetTranscriptOptions(enabled bool)
	SetEditOptions(enabled bool)
	PresentationMode() layout.Mode
	Bounds() layout.Rect
	SetBounds(r layout.Rect)
	Show(visible bool)
}

// Prompter presents modal dialogs. Calls block until the user responds.
type Prompter interface {
	// ConfirmSave asks whether to save a modified transcript before
	// continuing. False means discard.
	ConfirmSave(name string) bool
	Error(msg string)
	Info(msg string)
	// OfferFileRelocate opens the file-management tool for a missing media
	// file. Only invoked in single-user mode.
	OfferFileRelocate(path string)
}

// Library is the slice of the persistence layer the coordinator reads
// records through.
type Library interface {
	SeriesByName(name string) (*store.Series, error)
	SeriesByNum(num int64) (*store.Series, error)
	EpisodeByName(seriesNum int64, name string) (*store.Episode, error)
	EpisodeByNum(num int64) (*store.Episode, error)
	TranscriptByName(name string, episodeNum int64) (*store.Transcript, error)
	TranscriptByNum(num int64) (*store.Transcript, error)
	ClipByNum(num int64) (*store.Clip, error)
	ClipsForEpisode(episodeNum int64) ([]store.Clip, error)
	CollectionNodeString(num int64) (string, error)
	SaveEpisode(ep *store.Episode) error
	LockEpisode(num int64, lastSave time.Time) error
	UnlockEpisode(num int64) error
}

// PropagationTool pushes saved episode transcript changes down into derived
// clip transcripts. The coordinator only sequences the calls.
type PropagationTool interface {
	PropagateEpisode(ep *store.Episode, transcriptNum int64) error
	PropagateClip(clip *store.Clip, windowIndex int, text string, keywords []string) error
}
