// Package store provides SQLite persistence for series, episodes, clips, and
// transcripts, including optimistic record locking for multi-user mode.
package store

import "time"

// Series groups related episodes.
type Series struct {
	Number  int64
	ID      string
	Comment string
}

// Episode is a full recording within a series.
type Episode struct {
	Number        int64
	SeriesNum     int64
	ID            string
	MediaFilename string
	TapeLength    int // milliseconds; <= 0 when not yet known
	Comment       string
	LastSaveTime  time.Time
}

// Transcript is a time-coded transcript record. ClipNum is 0 for episode
// transcripts; clip transcripts carry the number of the episode transcript
// they were excerpted from in SourceTranscript.
type Transcript struct {
	Number           int64
	ID               string
	EpisodeNum       int64
	SourceTranscript int64
	ClipNum          int64
	SortOrder        int
	Transcriber      string
	ClipStart        int // milliseconds
	ClipStop         int // milliseconds
	Text             string
	Comment          string
	LastSaveTime     time.Time
}

// Collection groups clips.
type Collection struct {
	Number    int64
	ParentNum int64
	ID        string
	Comment   string
}

// Clip is a bounded sub-segment of an episode. Transcripts holds the clip's
// transcript excerpts in the order their windows must be opened.
type Clip struct {
	Number        int64
	ID            string
	CollectionNum int64
	EpisodeNum    int64
	MediaFilename string
	ClipStart     int // milliseconds
	ClipStop      int // milliseconds
	SortOrder     int
	Transcripts   []Transcript
	Keywords      []string
	LastSaveTime  time.Time
}
