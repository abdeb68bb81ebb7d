package layout

import "testing"

func TestAutoArrangeSingleWindow(t *testing.T) {
	screen := Rect{Left: 0, Top: 0, Width: 1280, Height: 1024}
	first := Rect{Left: 10, Top: 500, Width: 600, Height: 200}

	rects := AutoArrange(first, screen, 1)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	want := Rect{Left: 10, Top: 500, Width: 600, Height: 524}
	if rects[0] != want {
		t.Errorf("rect = %+v, want %+v", rects[0], want)
	}
}

func TestAutoArrangeDividesEvenly(t *testing.T) {
	screen := Rect{Left: 0, Top: 0, Width: 1280, Height: 1000}
	first := Rect{Left: 10, Top: 400, Width: 600, Height: 200}

	rects := AutoArrange(first, screen, 3)
	if len(rects) != 3 {
		t.Fatalf("got %d rects, want 3", len(rects))
	}

	each := (1000 - 400) / 3
	for i, r := range rects {
		if r.Left != 10 || r.Width != 600 {
			t.Errorf("rects[%d] left/width = %d/%d, want 10/600", i, r.Left, r.Width)
		}
		if r.Top != 400+i*each {
			t.Errorf("rects[%d].Top = %d, want %d", i, r.Top, 400+i*each)
		}
		if r.Height != each {
			t.Errorf("rects[%d].Height = %d, want %d", i, r.Height, each)
		}
	}
	if rects[2].Bottom() > screen.Bottom() {
		t.Errorf("last window extends past screen: %d > %d", rects[2].Bottom(), screen.Bottom())
	}
}

func TestAutoArrangeZeroCount(t *testing.T) {
	if rects := AutoArrange(Rect{}, Rect{Height: 100}, 0); rects != nil {
		t.Errorf("rects = %v, want nil", rects)
	}
}

func TestCascade(t *testing.T) {
	prev := Rect{Left: 100, Top: 200, Width: 640, Height: 480}
	got := Cascade(prev)
	want := Rect{Left: 116, Top: 216, Width: 624, Height: 464}
	if got != want {
		t.Errorf("Cascade = %+v, want %+v", got, want)
	}
}

func TestVideoOnly(t *testing.T) {
	screen := Rect{Left: 0, Top: 0, Width: 1280, Height: 1024}
	got := VideoOnly(screen)
	want := Rect{Left: 2, Top: 2, Width: 1276, Height: 1020}
	if got != want {
		t.Errorf("VideoOnly = %+v, want %+v", got, want)
	}
}

func TestVideoAndTranscriptSplit(t *testing.T) {
	screen := Rect{Left: 0, Top: 0, Width: 1000, Height: 1000}
	video, transcript := VideoAndTranscript(screen)

	if video.Height != 697 {
		t.Errorf("video.Height = %d, want 697", video.Height)
	}
	if transcript.Top != 701 {
		t.Errorf("transcript.Top = %d, want 701", transcript.Top)
	}
	if transcript.Height != 296 {
		t.Errorf("transcript.Height = %d, want 296", transcript.Height)
	}
	if video.Width != 996 || transcript.Width != 996 {
		t.Errorf("widths = %d/%d, want 996", video.Width, transcript.Width)
	}
}
