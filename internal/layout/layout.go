// Package layout computes window geometry for the normal, auto-arranged
// multi-transcript, and presentation-mode screen layouts. Everything here is
// a pure function of the inputs; the session coordinator decides when to
// apply the results.
package layout

// Rect is a window geometry in screen coordinates.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Right returns the x coordinate just past the rect.
func (r Rect) Right() int { return r.Left + r.Width }

// Bottom returns the y coordinate just past the rect.
func (r Rect) Bottom() int { return r.Top + r.Height }

// Mode selects the presentation-mode screen layout.
type Mode int

const (
	// ModeOff shows all windows in their normal arrangement.
	ModeOff Mode = iota
	// ModeVideoOnly maximizes the video window and hides everything else.
	ModeVideoOnly
	// ModeVideoAndTranscript splits the screen between the video window and
	// the primary transcript.
	ModeVideoAndTranscript
)

// Snapshot records the geometry of the five primary windows before a
// presentation-mode rearrangement, so they can be restored exactly.
type Snapshot struct {
	Menu          Rect
	Visualization Rect
	Video         Rect
	Transcripts   []Rect
	Data          Rect
}

// AutoArrange stacks count transcript windows in the vertical space between
// the top of the first transcript window and the bottom of the screen. All
// windows share the first window's left edge and width.
func AutoArrange(first Rect, screen Rect, count int) []Rect {
	if count <= 0 {
		return nil
	}
	avail := screen.Bottom() - first.Top
	if avail < count {
		avail = count
	}
	each := avail / count

	rects := make([]Rect, count)
	for i := range rects {
		rects[i] = Rect{
			Left:   first.Left,
			Top:    first.Top + i*each,
			Width:  first.Width,
			Height: each,
		}
	}
	return rects
}

// Cascade positions a new window offset from the previous one: 16 right,
// 16 down, 16 smaller in both dimensions. Used when auto-arrange is off.
func Cascade(prev Rect) Rect {
	return Rect{
		Left:   prev.Left + 16,
		Top:    prev.Top + 16,
		Width:  prev.Width - 16,
		Height: prev.Height - 16,
	}
}

// VideoOnly returns the video window geometry for ModeVideoOnly: nearly the
// whole screen, inset by two pixels.
func VideoOnly(screen Rect) Rect {
	return Rect{
		Left:   screen.Left + 2,
		Top:    screen.Top + 2,
		Width:  screen.Width - 4,
		Height: screen.Height - 4,
	}
}

// VideoAndTranscript splits the screen for ModeVideoAndTranscript: the video
// window takes the top 70 percent, the primary transcript the bottom 30.
func VideoAndTranscript(screen Rect) (video, transcript Rect) {
	split := screen.Height * 7 / 10
	video = Rect{
		Left:   screen.Left + 2,
		Top:    screen.Top + 2,
		Width:  screen.Width - 4,
		Height: split - 3,
	}
	transcript = Rect{
		Left:   screen.Left + 2,
		Top:    screen.Top + split + 1,
		Width:  screen.Width - 4,
		Height: screen.Height - split - 4,
	}
	return video, transcript
}
