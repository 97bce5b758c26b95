// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-platesolver/internal/solution"
	"github.com/litescript/ls-platesolver/internal/state"
	"github.com/litescript/ls-platesolver/internal/version"
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals the solution listing changed.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a refresh error.
	ErrorMsg struct {
		Error error
	}
)

// Rows used by the title, the blank line below it and the footer.
const chromeRows = 3

// Model is the root Bubble Tea model.
type Model struct {
	state *state.Manager

	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	image ImageViewModel

	snapshot   state.Snapshot
	current    int // index into snapshot.Entries
	selectedID int // entry to show; 0 follows the newest
}

// New creates a new root UI model. startID selects the entry shown first;
// 0 shows the newest solution.
func New(stateMgr *state.Manager, startID int) Model {
	return Model{
		state:      stateMgr,
		image:      NewImageViewModel(),
		selectedID: startID,
		current:    -1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "n", "tab":
			m = m.step(1)
		case "p", "shift+tab":
			m = m.step(-1)
		default:
			var cmd tea.Cmd
			m.image, cmd = m.image.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.image = m.image.SetSize(msg.Width, msg.Height-chromeRows)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.state != nil {
			m = m.applySnapshot(m.state.Snapshot())
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m = m.applySnapshot(msg.Snapshot)

	case ErrorMsg:
		m.statusMsg = "ERROR: " + msg.Error.Error()
	}

	return m, tea.Batch(cmds...)
}

// applySnapshot takes a new listing and keeps the selected entry on screen
// if it is still there.
func (m Model) applySnapshot(snap state.Snapshot) Model {
	m.snapshot = snap
	m.current = -1
	for i, e := range snap.Entries {
		if e.ID == m.selectedID {
			m.current = i
			break
		}
	}
	if m.current < 0 && len(snap.Entries) > 0 {
		m.current = 0
		m.selectedID = snap.Entries[0].ID
	}
	if m.current >= 0 {
		m.image = m.image.SetSolution(snap.Entries[m.current])
	}
	return m
}

// step moves the selection by delta entries, wrapping around.
func (m Model) step(delta int) Model {
	n := len(m.snapshot.Entries)
	if n == 0 {
		return m
	}
	m.current = ((m.current+delta)%n + n) % n
	e := m.snapshot.Entries[m.current]
	m.selectedID = e.ID
	m.image = m.image.SetSolution(e)
	return m
}

// SelectedID returns the ID of the entry on screen, or 0.
func (m Model) SelectedID() int {
	if m.current < 0 {
		return 0
	}
	return m.selectedID
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderFrame(m.image.View())
}

func (m Model) renderFrame(content string) string {
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var b strings.Builder
	title := " LS-PLATESOLVER "
	runes := []rune(title)
	for col, r := range runes {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(col, 0, len(runes), 1)))
		b.WriteString(style.Render(string(r)))
	}
	b.WriteString(muted.Render(fmt.Sprintf(" v%s", version.Version)))

	if n := len(m.snapshot.Entries); n > 0 && m.current >= 0 {
		b.WriteString(muted.Render(fmt.Sprintf(" | solution %d of %d", m.current+1, n)))
	}
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the title gradient.
// Blue -> purple -> magenta -> pink, fading toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	brightness := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	return clampInt(int(v), 0, 255)
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.statusMsg != "":
		status = errorStyle.Render(m.statusMsg)
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case len(m.snapshot.Events) > 0:
		status = accentStyle.Render(spinner) + " " + dimStyle.Render(describeEvent(m.snapshot.Events[len(m.snapshot.Events)-1]))
	case !m.snapshot.LastRefresh.IsZero():
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" %d solutions", len(m.snapshot.Entries)))
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Waiting for solutions...")
	}

	help := dimStyle.Render("n/p: solution | arrows: cursor | +/-: zoom | [/]: labels | q: quit")
	return "  " + status + "  " + dimStyle.Render("|") + "  " + help
}

func describeEvent(e state.Event) string {
	name := e.Image
	if name == "" {
		name = filepath.Base(e.File)
	}
	switch e.Type {
	case state.EventSolutionAdded:
		return fmt.Sprintf("added #%d %s (%d objects)", e.ID, name, e.Objects)
	case state.EventSolutionUpdated:
		return fmt.Sprintf("updated #%d %s (%d objects)", e.ID, name, e.Objects)
	case state.EventSolutionRemoved:
		return fmt.Sprintf("removed #%d %s", e.ID, name)
	}
	return string(e.Type)
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := abs(i - pos + 4)

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}

// entryName returns the display name of an entry.
func entryName(e solution.Entry) string {
	if e.Solution != nil && e.Solution.Params.ImageName != "" {
		return e.Solution.Params.ImageName
	}
	return filepath.Base(e.Path)
}
