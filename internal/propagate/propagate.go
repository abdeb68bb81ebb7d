// Package propagate pushes saved transcript changes down into the records
// derived from them. Episode transcript edits flow into the clips cut from
// that transcript; clip transcript edits flow into duplicate clips made
// from the same footage. Every target is confirmed with the user and
// updated under its own record lock, so one locked or stale record never
// blocks the rest.
package propagate

import (
	"fmt"
	"time"

	"github.com/UtahDave/Transana/internal/store"
	"github.com/UtahDave/Transana/internal/transcript"
)

// Decision is the user's answer for one propagation target.
type Decision int

const (
	Accept Decision = iota
	Skip
	AcceptAll
	Cancel
)

// Confirmer presents each proposed update and the final summary.
type Confirmer interface {
	ConfirmClipUpdate(clipID, newText string) Decision
	Summary(r Result)
}

// Library is the slice of the persistence layer propagation works through.
type Library interface {
	TranscriptByNum(num int64) (*store.Transcript, error)
	DerivedClips(transcriptNum int64) ([]store.Clip, error)
	ClipsForEpisode(episodeNum int64) ([]store.Clip, error)
	SaveTranscript(tr *store.Transcript) error
	ReplaceClipKeywords(clipNum int64, keywords []string) error
	LockTranscript(num int64, lastSave time.Time) error
	UnlockTranscript(num int64) error
}

// Result tallies one propagation run.
type Result struct {
	Updated int
	Skipped int
	Failed  []string
}

// Propagator sequences propagation runs.
type Propagator struct {
	lib     Library
	confirm Confirmer
}

func New(lib Library, confirm Confirmer) *Propagator {
	return &Propagator{lib: lib, confirm: confirm}
}

// PropagateEpisode pushes an episode transcript's saved text into every
// clip transcript cut from it. Each clip gets the slice of the new text
// between its start and stop times, re-wrapped in its boundary time codes.
// Cancel stops the run; locked or stale clips are recorded and skipped.
func (p *Propagator) PropagateEpisode(ep *store.Episode, transcriptNum int64) error {
	src, err := p.lib.TranscriptByNum(transcriptNum)
	if err != nil {
		return fmt.Errorf("load source transcript: %w", err)
	}
	clips, err := p.lib.DerivedClips(transcriptNum)
	if err != nil {
		return fmt.Errorf("list derived clips: %w", err)
	}

	var res Result
	acceptAll := false
	for ci := range clips {
		clip := &clips[ci]
		for ti := range clip.Transcripts {
			tr := &clip.Transcripts[ti]
			if tr.SourceTranscript != transcriptNum {
				continue
			}
			newText := clipText(src.Text, clip.ClipStart, clip.ClipStop)

			if !acceptAll {
				switch p.confirm.ConfirmClipUpdate(clip.ID, newText) {
				case Cancel:
					p.confirm.Summary(res)
					return nil
				case Skip:
					res.Skipped++
					continue
				case AcceptAll:
					acceptAll = true
				}
			}
			if err := p.updateTranscript(tr, newText); err != nil {
				res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", clip.ID, err))
				continue
			}
			res.Updated++
		}
	}
	p.confirm.Summary(res)
	return nil
}

// PropagateClip pushes a clip transcript's saved text and the clip's
// keywords into duplicate clips: other clips over the exact same footage
// span of the same episode. windowIndex selects which of the clip's
// transcripts changed; in each duplicate the counterpart is the
// transcript derived from the same source transcript, not simply the
// one at the same position.
func (p *Propagator) PropagateClip(clip *store.Clip, windowIndex int, text string, keywords []string) error {
	if windowIndex < 0 || windowIndex >= len(clip.Transcripts) {
		return fmt.Errorf("clip %q has no transcript %d", clip.ID, windowIndex)
	}
	sourceNum := clip.Transcripts[windowIndex].SourceTranscript
	candidates, err := p.lib.ClipsForEpisode(clip.EpisodeNum)
	if err != nil {
		return fmt.Errorf("list episode clips: %w", err)
	}

	var res Result
	acceptAll := false
	for ci := range candidates {
		dup := &candidates[ci]
		if dup.Number == clip.Number ||
			dup.ClipStart != clip.ClipStart || dup.ClipStop != clip.ClipStop {
			continue
		}
		tr := counterpartTranscript(dup, sourceNum, windowIndex)
		if tr == nil {
			continue
		}

		if !acceptAll {
			switch p.confirm.ConfirmClipUpdate(dup.ID, text) {
			case Cancel:
				p.confirm.Summary(res)
				return nil
			case Skip:
				res.Skipped++
				continue
			case AcceptAll:
				acceptAll = true
			}
		}
		if err := p.updateTranscript(tr, text); err != nil {
			res.Failed = append(res.Failed, fmt.Sprintf("%s: %v", dup.ID, err))
			continue
		}
		if err := p.lib.ReplaceClipKeywords(dup.Number, keywords); err != nil {
			res.Failed = append(res.Failed, fmt.Sprintf("%s keywords: %v", dup.ID, err))
			continue
		}
		res.Updated++
	}
	p.confirm.Summary(res)
	return nil
}

// counterpartTranscript finds the duplicate clip's transcript derived
// from the given source transcript. Clips created before source numbers
// were recorded carry zero there; those fall back to position matching.
func counterpartTranscript(dup *store.Clip, sourceNum int64, windowIndex int) *store.Transcript {
	if sourceNum > 0 {
		for i := range dup.Transcripts {
			if dup.Transcripts[i].SourceTranscript == sourceNum {
				return &dup.Transcripts[i]
			}
		}
		return nil
	}
	if windowIndex < len(dup.Transcripts) {
		return &dup.Transcripts[windowIndex]
	}
	return nil
}

// updateTranscript saves new text under the record's edit lock. The lock
// is taken against the caller's view of the record, so concurrent edits
// surface as ErrStaleRecord instead of being overwritten.
func (p *Propagator) updateTranscript(tr *store.Transcript, text string) error {
	if err := p.lib.LockTranscript(tr.Number, tr.LastSaveTime); err != nil {
		return err
	}
	defer p.lib.UnlockTranscript(tr.Number)
	tr.Text = text
	return p.lib.SaveTranscript(tr)
}

// clipText extracts the episode text for a clip's span and re-wraps it in
// the boundary time codes the clip transcript carries.
func clipText(episodeText string, start, stop int) string {
	actualStart, actualEnd, body := transcript.ExtractRange(episodeText, start, stop)
	out := fmt.Sprintf("[tc:%d]%s", actualStart, body)
	if actualEnd > 0 {
		out += fmt.Sprintf("[tc:%d]", actualEnd)
	}
	return out
}
