package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/UtahDave/Transana/internal/config"
	"github.com/UtahDave/Transana/internal/layout"
	"github.com/UtahDave/Transana/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	st, err := store.Open(":memory:", "tester")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(config.Default(), st, LoadTarget{})
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t)

	if m.coord.WindowCount() != 1 {
		t.Errorf("window count = %d, want 1", m.coord.WindowCount())
	}
	if m.coord.ActiveIndex() != 0 {
		t.Errorf("active index = %d, want 0", m.coord.ActiveIndex())
	}
	if m.menu.mode != layout.ModeOff {
		t.Error("new model should start with presentation mode off")
	}
}

func TestWindowSize(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model := updated.(*Model)

	if model.width != 120 || model.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", model.width, model.height)
	}
}

func TestQuitKeyShutsDown(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if !m.coord.ShuttingDown() {
		t.Error("coordinator not shut down on quit")
	}
}

func TestPresentationKeyCyclesModes(t *testing.T) {
	m := newTestModel(t)

	press := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}}
	m.Update(press)
	if m.menu.mode != layout.ModeVideoOnly {
		t.Errorf("mode after one press = %v, want video only", m.menu.mode)
	}
	m.Update(press)
	if m.menu.mode != layout.ModeVideoAndTranscript {
		t.Errorf("mode after two presses = %v, want video and transcript", m.menu.mode)
	}
	m.Update(press)
	if m.menu.mode != layout.ModeOff {
		t.Errorf("mode after three presses = %v, want off", m.menu.mode)
	}
}

func TestSpaceWithoutMediaIsHarmless(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	model := updated.(*Model)

	if model.transport.State().String() != "loading" {
		t.Errorf("state = %v, want loading", model.transport.State())
	}
}

func TestTickReschedules(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(TickMsg{})

	if cmd == nil {
		t.Fatal("tick did not reschedule")
	}
}

func TestSessionLoadErrorShown(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(SessionLoadedMsg{Err: store.ErrNotFound})
	model := updated.(*Model)

	if model.errorMessage == "" {
		t.Error("load error not surfaced")
	}
}

func TestViewRendersAfterSize(t *testing.T) {
	m := newTestModel(t)
	m.width, m.height = 100, 30

	out := m.View()
	if out == "" || out == "Initializing..." {
		t.Errorf("view = %q, want rendered layout", out)
	}
}
