package session

import (
	"errors"

	"github.com/UtahDave/Transana/internal/store"
)

// ErrMediaNotFound reports that a load succeeded far enough to show the
// transcript but the media file could not be located on disk.
var ErrMediaNotFound = errors.New("media file not found")

// SubjectKind discriminates what the session is currently focused on.
type SubjectKind int

const (
	SubjectNone SubjectKind = iota
	SubjectEpisode
	SubjectClip
)

// Subject is the current focus of the session: nothing, a whole episode, or
// a clip excerpted from one. Exactly one of Episode and Clip is non-nil for
// the matching kind.
type Subject struct {
	Kind    SubjectKind
	Episode *store.Episode
	Clip    *store.Clip
}

// Window pairs a transcript surface with the record number it currently
// displays. Windows live in the coordinator's ordered list; a window's
// position in that list is its window number.
type Window struct {
	Surface   TranscriptSurface
	RecordNum int64
}
