package media

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTransport(t *testing.T) (*Transport, *fakeClock) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "media.mpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write media file: %v", err)
	}

	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	tr := New()
	tr.clock = func() time.Time { return clock.now }
	if !tr.Open(path) {
		t.Fatal("Open failed for existing file")
	}
	return tr, clock
}

func TestOpenMissingFile(t *testing.T) {
	tr := New()
	if tr.Open(filepath.Join(t.TempDir(), "missing.mpg")) {
		t.Error("Open should fail for a missing file")
	}
	if tr.State() != StateLoading {
		t.Errorf("state = %v, want loading", tr.State())
	}
}

func TestPlayAdvancesPosition(t *testing.T) {
	tr, clock := newTestTransport(t)
	tr.SetDuration(60000)

	tr.Play()
	if tr.State() != StatePlaying {
		t.Fatalf("state = %v, want playing", tr.State())
	}

	clock.advance(1500 * time.Millisecond)
	if got := tr.Position(); got != 1500 {
		t.Errorf("position = %d, want 1500", got)
	}
}

func TestPauseKeepsPosition(t *testing.T) {
	tr, clock := newTestTransport(t)
	tr.SetDuration(60000)

	tr.Play()
	clock.advance(2 * time.Second)
	tr.Pause()
	clock.advance(5 * time.Second)

	if got := tr.Position(); got != 2000 {
		t.Errorf("position = %d, want 2000", got)
	}
	if tr.State() != StatePaused {
		t.Errorf("state = %v, want paused", tr.State())
	}
}

func TestStopRepositionsAtStartPoint(t *testing.T) {
	tr, clock := newTestTransport(t)
	tr.SetDuration(60000)
	tr.SetStartPoint(5000)

	tr.Play()
	clock.advance(3 * time.Second)
	tr.Stop()

	if got := tr.Position(); got != 5000 {
		t.Errorf("position = %d, want 5000", got)
	}
}

func TestPlaybackStopsAtEndPoint(t *testing.T) {
	tr, clock := newTestTransport(t)
	tr.SetDuration(60000)
	tr.SetStartPoint(1000)
	tr.SetEndPoint(3000)
	tr.SetPosition(1000)

	tr.Play()
	clock.advance(10 * time.Second)

	if tr.State() != StateStopped {
		t.Errorf("state = %v, want stopped after running past end point", tr.State())
	}
	if got := tr.Position(); got != 1000 {
		t.Errorf("position = %d, want start point 1000", got)
	}
}

func TestSetPositionClampsToTrim(t *testing.T) {
	tr, _ := newTestTransport(t)
	tr.SetDuration(60000)
	tr.SetStartPoint(2000)
	tr.SetEndPoint(8000)

	tr.SetPosition(100)
	if got := tr.Position(); got != 2000 {
		t.Errorf("position = %d, want clamp to 2000", got)
	}

	tr.SetPosition(99999)
	if got := tr.Position(); got != 8000 {
		t.Errorf("position = %d, want clamp to 8000", got)
	}
}

func TestSetStartPointNegativeClampsToZero(t *testing.T) {
	tr, _ := newTestTransport(t)
	tr.SetStartPoint(-50)
	if tr.StartPoint() != 0 {
		t.Errorf("start point = %d, want 0", tr.StartPoint())
	}
}
