package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/UtahDave/Transana/internal/config"
	"github.com/UtahDave/Transana/internal/layout"
	"github.com/UtahDave/Transana/internal/media"
	"github.com/UtahDave/Transana/internal/propagate"
	"github.com/UtahDave/Transana/internal/session"
	"github.com/UtahDave/Transana/internal/store"
	"github.com/UtahDave/Transana/internal/transcript"
	"github.com/UtahDave/Transana/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 100 * time.Millisecond

// LoadTarget names what to load when the TUI starts. A ClipNum takes
// precedence over an episode transcript.
type LoadTarget struct {
	Series     string
	Episode    string
	Transcript string
	ClipNum    int64
}

// Model is the root bubbletea model for the transana TUI.
type Model struct {
	coord     *session.Coordinator
	store     *store.Store
	cfg       *config.Config
	transport *media.Transport

	video  *videoPanel
	viz    *vizPanel
	data   *dataPanel
	menu   *menuPanel
	prompt *statusPrompter

	editors []*transcript.Editor
	target  LoadTarget

	lastState media.State
	width     int
	height    int

	statusText     string
	errorMessage   string
	errorTransient bool
}

// New creates a Model wired to a fresh session over the given store.
func New(cfg *config.Config, st *store.Store, target LoadTarget) *Model {
	m := &Model{
		store:      st,
		cfg:        cfg,
		transport:  media.New(),
		video:      &videoPanel{visible: true, title: "Media"},
		viz:        &vizPanel{visible: true},
		data:       &dataPanel{visible: true},
		menu:       &menuPanel{visible: true},
		prompt:     &statusPrompter{},
		target:     target,
		statusText: "No media loaded",
	}

	screen := layout.Rect{Width: 1280, Height: 1024}
	m.menu.bounds = layout.Rect{Width: screen.Width, Height: 24}
	m.viz.bounds = layout.Rect{Top: 24, Width: 400, Height: 280}
	m.video.bounds = layout.Rect{Left: 400, Top: 24, Width: 480, Height: 280}
	m.data.bounds = layout.Rect{Left: 880, Top: 24, Width: 400, Height: 1000}

	m.coord = session.New(session.Options{
		Media:         m.transport,
		Video:         m.video,
		Visualization: m.viz,
		Data:          m.data,
		Menu:          m.menu,
		Prompt:        m.prompt,
		Library:       st,
		Propagation:   propagate.New(st, &statusConfirmer{prompt: m.prompt}),
		NewSurface: func() session.TranscriptSurface {
			ed := transcript.New(st)
			ed.SetBounds(layout.Rect{Top: 320, Width: 880, Height: 704})
			m.editors = append(m.editors, ed)
			return ed
		},
		Settings: cfg,
		Screen:   screen,
	})
	return m
}

// Init schedules the initial load and starts the poll loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg{At: t}
	})
}

// loadCmd performs the startup load named on the command line.
func (m *Model) loadCmd() tea.Cmd {
	target := m.target
	return func() tea.Msg {
		switch {
		case target.ClipNum > 0:
			return SessionLoadedMsg{Err: m.coord.LoadClip(target.ClipNum)}
		case target.Series != "":
			return SessionLoadedMsg{
				Err: m.coord.LoadEpisodeTranscript(target.Series, target.Episode, target.Transcript),
			}
		}
		return SessionLoadedMsg{}
	}
}

// clearTransientErrorCmd fires after a delay to clear transient errors.
func clearTransientErrorCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return ClearTransientErrorMsg{}
	})
}

// Update processes messages and returns the updated model and any commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		return m.handleTick()

	case SessionLoadedMsg:
		if msg.Err != nil {
			m.errorMessage = msg.Err.Error()
			m.errorTransient = false
		} else if m.coord.Subject().Kind != session.SubjectNone {
			m.statusText = "Loaded"
		}
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	state := m.transport.State()
	if state == media.StatePlaying {
		m.coord.UpdateVideoPosition(m.transport.Position())
	}
	if state != m.lastState {
		m.coord.UpdatePlayState(state)
		m.lastState = state
	}
	m.coord.RunPending()

	var cmds []tea.Cmd
	if msg := m.prompt.takeError(); msg != "" {
		m.errorMessage = msg
		m.errorTransient = true
		cmds = append(cmds, clearTransientErrorCmd())
	}
	if msg := m.prompt.takeInfo(); msg != "" {
		m.statusText = msg
	}
	cmds = append(cmds, tickCmd())
	return m, tea.Batch(cmds...)
}

// handleKey processes key presses.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		m.coord.SaveTranscript(true, false, -1)
		m.coord.Shutdown()
		return m, tea.Quit

	case KeySpace:
		m.coord.PlayPause(true)
		return m, nil

	case KeyPlayStop:
		m.coord.PlayStop(true)
		return m, nil

	case KeyTab:
		if n := m.coord.WindowCount(); n > 1 {
			m.coord.SetActiveTranscript((m.coord.ActiveIndex() + 1) % n)
		}
		return m, nil

	case KeyCopy:
		if err := m.coord.CopySelection(); err != nil {
			m.errorMessage = err.Error()
			m.errorTransient = true
			return m, clearTransientErrorCmd()
		}
		m.statusText = "Selection copied"
		return m, nil

	case KeyMultiSelect:
		m.coord.MultiSelect(m.coord.ActiveIndex())
		return m, nil

	case KeyMultiPlay:
		m.coord.MultiPlay()
		return m, nil

	case KeyPresentation:
		m.menu.cycleMode()
		m.statusText = "Presentation: " + presentationName(m.menu.mode)
		return m, nil

	case KeyPropagate:
		if err := m.coord.PropagateChanges(m.coord.ActiveIndex()); err != nil {
			m.errorMessage = err.Error()
			m.errorTransient = true
			return m, clearTransientErrorCmd()
		}
		return m, nil

	case KeyTimeCode:
		m.coord.InsertTimeCode()
		return m, nil

	case KeySave:
		m.coord.SaveTranscript(false, false, -1)
		return m, nil

	case KeyCloseWindow:
		m.coord.CloseAdditionalTranscript(m.coord.ActiveIndex())
		return m, nil

	case KeyEditToggle:
		idx := m.coord.ActiveIndex()
		if idx >= 0 && idx < len(m.editors) {
			ed := m.activeEditor()
			if ed != nil {
				ed.SetReadOnly(!ed.ReadOnly())
				m.coord.SetActiveTranscript(idx)
			}
		}
		return m, nil

	case KeySeekBack:
		m.seek(-1000)
		return m, nil

	case KeySeekFwd:
		m.seek(1000)
		return m, nil
	}

	return m, nil
}

// activeEditor finds the editor behind the active window.
func (m *Model) activeEditor() *transcript.Editor {
	w := m.coord.ActiveWindow()
	if w == nil {
		return nil
	}
	for _, ed := range m.editors {
		if session.TranscriptSurface(ed) == w.Surface {
			return ed
		}
	}
	return nil
}

func (m *Model) seek(deltaMs int) {
	pos := m.transport.Position() + deltaMs
	m.transport.SetPosition(pos)
	m.coord.UpdateVideoPosition(m.transport.Position())
}

func presentationName(mode layout.Mode) string {
	switch mode {
	case layout.ModeVideoOnly:
		return "Video Only"
	case layout.ModeVideoAndTranscript:
		return "Video and Transcript"
	default:
		return "All Windows"
	}
}

// View renders the full TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())
	sections = append(sections, m.renderStatusBar())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	sections = append(sections, m.renderTranscripts())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	if kws := m.data.keywords; len(kws) > 0 {
		sections = append(sections, ui.DimStyle.Render("Keywords: ")+ui.KeywordStyle.Render(strings.Join(kws, ", ")))
	}
	if m.errorMessage != "" {
		sections = append(sections, ui.ErrorStyle.Render("Error: ")+ui.ErrorTextStyle.Render(m.errorMessage))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

func (m *Model) renderHeader() string {
	title := ui.TitleStyle.Render("TRANSANA")

	var subject string
	switch s := m.coord.Subject(); s.Kind {
	case session.SubjectEpisode:
		subject = ui.DimStyle.Render(" — Episode " + s.Episode.ID)
	case session.SubjectClip:
		subject = ui.DimStyle.Render(" — Clip " + s.Clip.ID)
	}
	return title + subject
}

func (m *Model) renderStatusBar() string {
	var dot string
	switch m.transport.State() {
	case media.StatePlaying:
		dot = ui.PlayingDotStyle.Render("▶ PLAY")
	case media.StatePaused:
		dot = ui.PausedDotStyle.Render("‖ PAUSE")
	case media.StateStopped:
		dot = ui.StoppedDotStyle.Render("■ STOP")
	default:
		dot = ui.StoppedDotStyle.Render("· NO MEDIA")
	}

	pos := ui.PositionStyle.Render(fmt.Sprintf("  %s / %s",
		transcript.FormatTime(m.transport.Position()),
		transcript.FormatTime(m.transport.Duration())))

	var sel string
	if w := m.coord.ActiveWindow(); w != nil {
		if lbl := w.Surface.SelectionLabel(); lbl != "" {
			sel = "  " + ui.SelectionStyle.Render(lbl)
		}
	}

	status := ""
	if m.statusText != "" {
		status = "  " + ui.StatusStyle.Render(m.statusText)
	}
	return dot + pos + sel + status
}

func (m *Model) renderTranscripts() string {
	windows := m.coord.Windows()
	if len(windows) == 0 {
		return ui.DimStyle.Render("  No transcript loaded")
	}

	panelHeight := m.transcriptPanelHeight(len(windows))
	var panels []string
	for i, w := range windows {
		panels = append(panels, m.renderTranscriptPanel(w, i == m.coord.ActiveIndex(), panelHeight))
	}
	return strings.Join(panels, "\n"+ui.DividerStyle.Render(strings.Repeat("┈", m.width))+"\n")
}

func (m *Model) renderTranscriptPanel(w *session.Window, active bool, height int) string {
	var header string
	if active {
		header = ui.PanelTitleActiveStyle.Render(w.Surface.Title())
	} else {
		header = ui.PanelTitleStyle.Render(w.Surface.Title())
	}
	if w.Surface.ReadOnly() {
		header += " " + ui.ReadBadgeStyle.Render("READ")
	} else {
		header += " " + ui.EditBadgeStyle.Render("EDIT")
	}

	lines := []string{header}

	text := transcript.StripTimeCodes(w.Surface.Text())
	if text == "" {
		lines = append(lines, ui.DimStyle.Render("  (empty)"))
	} else {
		for _, wl := range wrapText(text, max(20, m.width-4)) {
			lines = append(lines, "  "+wl)
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) transcriptPanelHeight(count int) int {
	if m.height == 0 {
		return 10
	}
	// Reserve: header(1) + status(1) + dividers(2) + footer(1) + error(1)
	reserved := 6 + count
	avail := m.height - reserved
	return max(3, avail/count)
}

func (m *Model) renderFooter() string {
	var parts []string

	parts = append(parts, ui.FooterKeyStyle.Render("Space")+ui.FooterDescStyle.Render(" Play/Pause"))
	parts = append(parts, ui.FooterKeyStyle.Render("s")+ui.FooterDescStyle.Render(" Stop"))
	parts = append(parts, ui.FooterKeyStyle.Render("Tab")+ui.FooterDescStyle.Render(" Window"))
	parts = append(parts, ui.FooterKeyStyle.Render("e")+ui.FooterDescStyle.Render(" Edit"))
	parts = append(parts, ui.FooterKeyStyle.Render("m/M")+ui.FooterDescStyle.Render(" MultiSel/Play"))
	parts = append(parts, ui.FooterKeyStyle.Render("p")+ui.FooterDescStyle.Render(" Presentation"))
	parts = append(parts, ui.FooterKeyStyle.Render("y")+ui.FooterDescStyle.Render(" Copy"))
	parts = append(parts, ui.FooterKeyStyle.Render("q")+ui.FooterDescStyle.Render(" Quit"))

	return strings.Join(parts, "  ")
}

// Helpers

func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			if current == "" {
				current = word
			} else if len(current)+1+len(word) <= width {
				current += " " + word
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		if current != "" {
			lines = append(lines, current)
		} else {
			lines = append(lines, "")
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
