package propagate

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/UtahDave/Transana/internal/store"
)

type scriptedConfirmer struct {
	answers []Decision
	asked   []string
	summary *Result
}

func (s *scriptedConfirmer) ConfirmClipUpdate(clipID, newText string) Decision {
	s.asked = append(s.asked, clipID)
	if len(s.answers) == 0 {
		return Accept
	}
	d := s.answers[0]
	s.answers = s.answers[1:]
	return d
}

func (s *scriptedConfirmer) Summary(r Result) { s.summary = &r }

type fakeLib struct {
	source   *store.Transcript
	derived  []store.Clip
	episode  []store.Clip
	lockErrs map[int64]error

	saved    []*store.Transcript
	keywords map[int64][]string
	locked   []int64
	unlocked []int64
}

func (l *fakeLib) TranscriptByNum(num int64) (*store.Transcript, error) {
	if l.source != nil && l.source.Number == num {
		return l.source, nil
	}
	return nil, fmt.Errorf("transcript %d: %w", num, store.ErrNotFound)
}

func (l *fakeLib) DerivedClips(transcriptNum int64) ([]store.Clip, error) {
	return l.derived, nil
}

func (l *fakeLib) ClipsForEpisode(episodeNum int64) ([]store.Clip, error) {
	return l.episode, nil
}

func (l *fakeLib) SaveTranscript(tr *store.Transcript) error {
	l.saved = append(l.saved, tr)
	return nil
}

func (l *fakeLib) ReplaceClipKeywords(clipNum int64, kws []string) error {
	if l.keywords == nil {
		l.keywords = make(map[int64][]string)
	}
	l.keywords[clipNum] = kws
	return nil
}

func (l *fakeLib) LockTranscript(num int64, lastSave time.Time) error {
	if err := l.lockErrs[num]; err != nil {
		return err
	}
	l.locked = append(l.locked, num)
	return nil
}

func (l *fakeLib) UnlockTranscript(num int64) error {
	l.unlocked = append(l.unlocked, num)
	return nil
}

func derivedClip(num int64, id string, trNum, source int64, start, stop int) store.Clip {
	return store.Clip{
		Number: num, ID: id, EpisodeNum: 1, ClipStart: start, ClipStop: stop,
		Transcripts: []store.Transcript{
			{Number: trNum, ClipNum: num, SourceTranscript: source},
		},
	}
}

func TestPropagateEpisodeUpdatesDerivedClips(t *testing.T) {
	lib := &fakeLib{
		source: &store.Transcript{
			Number: 1, EpisodeNum: 1,
			Text: "[tc:0]intro [tc:5000]greeting words [tc:9000]closing",
		},
		derived: []store.Clip{
			derivedClip(10, "Greeting", 21, 1, 5000, 9000),
		},
	}
	conf := &scriptedConfirmer{}
	p := New(lib, conf)

	if err := p.PropagateEpisode(&store.Episode{Number: 1}, 1); err != nil {
		t.Fatalf("PropagateEpisode: %v", err)
	}

	if len(lib.saved) != 1 {
		t.Fatalf("saved %d transcripts, want 1", len(lib.saved))
	}
	got := lib.saved[0].Text
	want := "[tc:5000]greeting words [tc:9000]"
	if got != want {
		t.Errorf("clip text = %q, want %q", got, want)
	}
	if conf.summary == nil || conf.summary.Updated != 1 {
		t.Errorf("summary = %+v, want 1 updated", conf.summary)
	}
}

func TestPropagateEpisodeSkipAndAccept(t *testing.T) {
	lib := &fakeLib{
		source: &store.Transcript{Number: 1, Text: "[tc:0]a [tc:5000]b [tc:9000]c"},
		derived: []store.Clip{
			derivedClip(10, "First", 21, 1, 0, 5000),
			derivedClip(11, "Second", 22, 1, 5000, 9000),
		},
	}
	conf := &scriptedConfirmer{answers: []Decision{Skip, Accept}}
	p := New(lib, conf)

	if err := p.PropagateEpisode(&store.Episode{Number: 1}, 1); err != nil {
		t.Fatalf("PropagateEpisode: %v", err)
	}

	if conf.summary.Skipped != 1 || conf.summary.Updated != 1 {
		t.Errorf("summary = %+v, want 1 skipped, 1 updated", conf.summary)
	}
	if len(lib.saved) != 1 || lib.saved[0].Number != 22 {
		t.Errorf("saved %+v, want only transcript 22", lib.saved)
	}
}

func TestPropagateEpisodeCancelStops(t *testing.T) {
	lib := &fakeLib{
		source: &store.Transcript{Number: 1, Text: "[tc:0]a [tc:5000]b"},
		derived: []store.Clip{
			derivedClip(10, "First", 21, 1, 0, 5000),
			derivedClip(11, "Second", 22, 1, 0, 5000),
		},
	}
	conf := &scriptedConfirmer{answers: []Decision{Cancel}}
	p := New(lib, conf)

	if err := p.PropagateEpisode(&store.Episode{Number: 1}, 1); err != nil {
		t.Fatalf("PropagateEpisode: %v", err)
	}

	if len(conf.asked) != 1 {
		t.Errorf("asked %d times after cancel, want 1", len(conf.asked))
	}
	if len(lib.saved) != 0 {
		t.Errorf("saved %d transcripts after cancel, want 0", len(lib.saved))
	}
}

func TestPropagateEpisodeAcceptAllStopsAsking(t *testing.T) {
	lib := &fakeLib{
		source: &store.Transcript{Number: 1, Text: "[tc:0]a [tc:5000]b [tc:9000]c"},
		derived: []store.Clip{
			derivedClip(10, "First", 21, 1, 0, 5000),
			derivedClip(11, "Second", 22, 1, 5000, 9000),
			derivedClip(12, "Third", 23, 1, 0, 9000),
		},
	}
	conf := &scriptedConfirmer{answers: []Decision{AcceptAll}}
	p := New(lib, conf)

	if err := p.PropagateEpisode(&store.Episode{Number: 1}, 1); err != nil {
		t.Fatalf("PropagateEpisode: %v", err)
	}

	if len(conf.asked) != 1 {
		t.Errorf("asked %d times after accept-all, want 1", len(conf.asked))
	}
	if conf.summary.Updated != 3 {
		t.Errorf("updated = %d, want 3", conf.summary.Updated)
	}
}

func TestPropagateEpisodeStaleLockContinues(t *testing.T) {
	lib := &fakeLib{
		source: &store.Transcript{Number: 1, Text: "[tc:0]a [tc:5000]b [tc:9000]c"},
		derived: []store.Clip{
			derivedClip(10, "First", 21, 1, 0, 5000),
			derivedClip(11, "Second", 22, 1, 5000, 9000),
		},
		lockErrs: map[int64]error{21: store.ErrStaleRecord},
	}
	conf := &scriptedConfirmer{}
	p := New(lib, conf)

	if err := p.PropagateEpisode(&store.Episode{Number: 1}, 1); err != nil {
		t.Fatalf("PropagateEpisode: %v", err)
	}

	if len(conf.summary.Failed) != 1 || !strings.Contains(conf.summary.Failed[0], "First") {
		t.Errorf("failed = %v, want one entry for First", conf.summary.Failed)
	}
	if conf.summary.Updated != 1 {
		t.Errorf("updated = %d, want 1", conf.summary.Updated)
	}
	if len(lib.unlocked) != 1 || lib.unlocked[0] != 22 {
		t.Errorf("unlocked = %v, want [22]", lib.unlocked)
	}
}

func TestPropagateClipUpdatesDuplicates(t *testing.T) {
	orig := derivedClip(10, "Greeting", 21, 1, 5000, 9000)
	orig.Keywords = []string{"greeting", "smile"}
	lib := &fakeLib{
		episode: []store.Clip{
			orig,
			derivedClip(11, "Greeting Copy", 22, 1, 5000, 9000),
			derivedClip(12, "Other Span", 23, 1, 0, 5000),
		},
	}
	conf := &scriptedConfirmer{}
	p := New(lib, conf)

	err := p.PropagateClip(&orig, 0, "[tc:5000]revised words[tc:9000]", orig.Keywords)
	if err != nil {
		t.Fatalf("PropagateClip: %v", err)
	}

	if len(lib.saved) != 1 || lib.saved[0].Number != 22 {
		t.Fatalf("saved %+v, want only transcript 22", lib.saved)
	}
	if lib.saved[0].Text != "[tc:5000]revised words[tc:9000]" {
		t.Errorf("duplicate text = %q", lib.saved[0].Text)
	}
	if got := lib.keywords[11]; len(got) != 2 || got[0] != "greeting" {
		t.Errorf("duplicate keywords = %v, want [greeting smile]", got)
	}
	if len(conf.asked) != 1 || conf.asked[0] != "Greeting Copy" {
		t.Errorf("asked = %v, want [Greeting Copy]", conf.asked)
	}
}
