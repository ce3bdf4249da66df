// Package tui implements the Bubble Tea feedback browser.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/ctrev/internal/model"
	"github.com/sprite-ai/ctrev/internal/outline"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

// Model is the top-level Bubble Tea model for browsing review feedback.
type Model struct {
	feedback model.Feedback
	text     string   // flattened content, for excerpts
	outline  []string // rendered outline lines

	// UI state
	width  int
	height int

	// Entry list
	visible     []int // indices into feedback.Entries passing the filter
	cursor      int   // position within visible
	minSeverity model.Severity
	decisions   map[int]Decision

	// Outline pane
	showOutline   bool
	outlineOffset int

	showHelp bool
}

// New creates a browser over fb. root may be nil, in which case excerpts and
// the outline pane are empty.
func New(fb model.Feedback, root structtext.Node) Model {
	m := Model{
		feedback:    fb,
		minSeverity: model.SeverityInfo,
		decisions:   make(map[int]Decision),
	}
	if root != nil {
		m.text = structtext.Flatten(root).Text()
		rendered := strings.TrimRight(outline.Render(root, outline.Options{Color: true, MaxContent: 60}), "\n")
		m.outline = strings.Split(rendered, "\n")
	}
	m.applyFilter()
	return m
}

func (m *Model) applyFilter() {
	m.visible = nil
	for i, e := range m.feedback.Entries {
		if e.Severity >= m.minSeverity {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// selected returns the entry index under the cursor, or -1.
func (m Model) selected() int {
	if len(m.visible) == 0 {
		return -1
	}
	return m.visible[m.cursor]
}

func (m *Model) decide(d Decision) {
	idx := m.selected()
	if idx < 0 {
		return
	}
	if d == DecisionPending {
		delete(m.decisions, idx)
	} else {
		m.decisions[idx] = d
	}
	if m.cursor < len(m.visible)-1 {
		m.cursor++
	}
}

// Result returns the decisions made so far.
func (m Model) Result() *Result {
	decisions := make(map[int]Decision, len(m.decisions))
	for k, v := range m.decisions {
		decisions[k] = v
	}
	return &Result{Decisions: decisions, Entries: m.feedback.Entries}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.showOutline {
			return m.updateOutline(msg)
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, keys.Top):
			m.cursor = 0

		case key.Matches(msg, keys.Bottom):
			if len(m.visible) > 0 {
				m.cursor = len(m.visible) - 1
			}

		case key.Matches(msg, keys.Accept):
			m.decide(DecisionAccepted)

		case key.Matches(msg, keys.Dismiss):
			m.decide(DecisionDismissed)

		case key.Matches(msg, keys.Clear):
			m.decide(DecisionPending)

		case key.Matches(msg, keys.Filter):
			m.minSeverity = (m.minSeverity + 1) % (model.SeverityCritical + 1)
			m.applyFilter()

		case key.Matches(msg, keys.Outline):
			m.showOutline = true

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
		}
	}

	return m, nil
}

func (m Model) updateOutline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Outline):
		m.showOutline = false
	case key.Matches(msg, keys.Down):
		if m.outlineOffset < len(m.outline)-1 {
			m.outlineOffset++
		}
	case key.Matches(msg, keys.Up):
		if m.outlineOffset > 0 {
			m.outlineOffset--
		}
	case key.Matches(msg, keys.Top):
		m.outlineOffset = 0
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	listWidth := m.listWidth()
	paneWidth := m.width - listWidth - 1

	list := m.renderList(listWidth, m.height-2)
	var pane string
	if m.showOutline {
		pane = m.renderOutline(paneWidth, m.height-2)
	} else {
		pane = detailStyle.Width(paneWidth).Height(m.height - 4).Render(m.detail(paneWidth - 4))
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", pane)
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func (m Model) listWidth() int {
	w := m.width * 2 / 5
	if w < 30 {
		w = 30
	}
	if w > m.width-20 {
		w = m.width - 20
	}
	return w
}

func (m Model) renderList(width, height int) string {
	var b strings.Builder
	innerHeight := height - 2

	// Keep the cursor in view.
	start := 0
	if m.cursor >= innerHeight {
		start = m.cursor - innerHeight + 1
	}
	end := start + innerHeight
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for pos := start; pos < end; pos++ {
		idx := m.visible[pos]
		e := m.feedback.Entries[idx]
		d := m.decisions[idx]
		line := entryLine(e, d, width-4)

		var style lipgloss.Style
		switch {
		case pos == m.cursor:
			style = entrySelectedStyle
		case d == DecisionDismissed:
			style = entryDismissedStyle
		default:
			style = entryStyle.Foreground(SeverityStyle(e.Severity).GetForeground())
		}
		b.WriteString(style.Width(width - 4).Render(line))
		if pos < end-1 {
			b.WriteByte('\n')
		}
	}
	if len(m.visible) == 0 {
		b.WriteString(labelStyle.Render("(empty)"))
	}

	return listStyle.Width(width).Height(innerHeight).Render(b.String())
}

func (m Model) renderOutline(width, height int) string {
	innerHeight := height - 2
	if len(m.outline) == 0 {
		return detailStyle.Width(width).Height(innerHeight).Render(labelStyle.Render("No content loaded"))
	}
	end := m.outlineOffset + innerHeight
	if end > len(m.outline) {
		end = len(m.outline)
	}
	return detailStyle.Width(width).Height(innerHeight).Render(strings.Join(m.outline[m.outlineOffset:end], "\n"))
}

func (m Model) renderStatusBar() string {
	fb := m.Result().Feedback()

	left := fmt.Sprintf(" %s", VerdictStyle(fb.Verdict).Render(fb.Verdict.String()))
	if len(m.visible) > 0 {
		left += fmt.Sprintf("  Entry %d/%d", m.cursor+1, len(m.visible))
	}
	right := fmt.Sprintf("filter ≥ %s  ? help ", m.minSeverity)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	var b strings.Builder

	b.WriteString(helpHeaderStyle.Render("ctrev: Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, kb := range []key.Binding{
		keys.Up, keys.Down, keys.Top, keys.Bottom, keys.Accept, keys.Dismiss,
		keys.Clear, keys.Filter, keys.Outline, keys.Help, keys.Quit,
	} {
		h := kb.Help()
		b.WriteString(fmt.Sprintf("  %s  %s\n", helpKeyStyle.Width(12).Render(h.Key), h.Desc))
	}

	b.WriteString("\n")
	b.WriteString(helpBarStyle.Render("Press ? to close help"))
	return b.String()
}

// Run opens the browser and returns the decisions made when it exits.
func Run(fb model.Feedback, root structtext.Node) (*Result, error) {
	p := tea.NewProgram(New(fb, root), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(Model); ok {
		return m.Result(), nil
	}
	return nil, nil
}
