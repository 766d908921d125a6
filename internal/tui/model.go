// Package tui renders the provider's collection as a scrollable list. The
// bubbletea update loop is the provider's observation context: cursor-driven
// growth, resets and applied fetch completions all happen inside Update.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mvillar/lazylist-cli/internal/list"
	"github.com/mvillar/lazylist-cli/internal/store"
	"github.com/mvillar/lazylist-cli/internal/tui/state"
	"github.com/mvillar/lazylist-cli/internal/tui/theme"
)

// Provider is the list engine instantiated with the store's payload type.
type Provider = list.Provider[store.Record]

type completionMsg struct {
	completion list.Completion[store.Record]
}

type Model struct {
	provider *Provider
	theme    theme.Theme
	cursor   int
	width    int
	height   int
	showHelp bool
	status   string
}

func NewModel(provider *Provider) Model {
	return Model{
		provider: provider,
		theme:    theme.Default(),
	}
}

func (m Model) Init() tea.Cmd {
	return waitForCompletion(m.provider)
}

// waitForCompletion blocks on the provider's delivery channel off the update
// loop and hands the result back as a message, so the completion is applied
// on the observation context.
func waitForCompletion(p *Provider) tea.Cmd {
	return func() tea.Msg {
		return completionMsg{completion: <-p.Completions()}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case completionMsg:
		m.provider.Apply(msg.completion)
		if err := msg.completion.Err(); err != nil {
			m.status = fmt.Sprintf("Fetch %d failed: %v (revisit the row to retry)", msg.completion.Index(), err)
		}
		return m, waitForCompletion(m.provider)
	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "esc", "?":
				m.showHelp = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "up", "k":
			m.moveCursorBy(-1)
			return m, nil
		case "down", "j":
			m.moveCursorBy(1)
			return m, nil
		case "pgup", "ctrl+b":
			m.moveCursorBy(-state.PageStep(m.height, m.status != ""))
			return m, nil
		case "pgdown", "ctrl+f":
			m.moveCursorBy(state.PageStep(m.height, m.status != ""))
			return m, nil
		case "g":
			m.cursor = 0
			m.visitCursor()
			return m, nil
		case "G":
			m.cursor = m.provider.Len() - 1
			m.visitCursor()
			return m, nil
		case "enter":
			// Manual retry for a row whose fetch failed.
			m.provider.EnsureFetched(m.cursor)
			return m, nil
		case "r":
			m.provider.Reset()
			m.cursor = 0
			m.status = "Collection reset"
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) moveCursorBy(delta int) {
	m.cursor = state.ClampCursor(m.cursor+delta, m.provider.Len())
	m.visitCursor()
}

// visitCursor reports the read position, which both triggers batch growth
// near the end of the collection and re-requests a failed row on revisit.
func (m *Model) visitCursor() {
	m.provider.FetchMoreItemsIfNeeded(m.cursor)
	m.provider.EnsureFetched(m.cursor)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Lazylist"))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("Help (esc to close)\n\n")
		b.WriteString(m.helpView())
		b.WriteString("\n\n")
		b.WriteString(m.footer())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("j/k/arrows: move | g/G: top/bottom | pgup/pgdown: jump | enter: retry row | r: reset | ?: help | q: quit\n\n")

	items := m.provider.Items()
	start, end := state.CenteredWindow(len(items), m.cursor, m.listBodyHeight())
	for i := start; i < end; i++ {
		b.WriteString(m.renderItemLine(items[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderItemLine(it *list.Item[store.Record], active bool) string {
	cursorMarker := " "
	if active {
		cursorMarker = ">"
	}

	var label string
	switch it.Status() {
	case list.StatusFetched:
		rec, _ := it.Payload()
		label = fmt.Sprintf("%s  %s", rec.Title, rec.Detail)
	case list.StatusFetching:
		label = "loading..."
	default:
		label = "not loaded (enter to retry)"
	}

	line := fmt.Sprintf(" %s %4d. %s", cursorMarker, it.Index()+1, m.theme.StyleRowLabel(it.Status(), label))
	return m.theme.RenderActiveLine(active, line)
}

func (m Model) messagePanel() string {
	status := "-"
	if m.status != "" {
		status = m.status
	}
	return m.theme.MetaLabel.Render("Status: ") + m.theme.MetaValue.Render(status)
}

func (m Model) footer() string {
	fetched, fetching, pending := 0, 0, 0
	for _, it := range m.provider.Items() {
		switch it.Status() {
		case list.StatusFetched:
			fetched++
		case list.StatusFetching:
			fetching++
		default:
			pending++
		}
	}

	gen := m.provider.Generation().String()
	if len(gen) > 8 {
		gen = gen[:8]
	}
	counts := fmt.Sprintf("Items: %d | fetched: %d | loading: %d | pending: %d", m.provider.Len(), fetched, fetching, pending)
	return m.theme.GenPill.Render("gen "+gen) + " " + m.theme.MetaValue.Render(counts)
}

func (m Model) listBodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	usedByChrome := 6
	if h := m.height - usedByChrome; h > 3 {
		return h
	}
	return 3
}

func (m Model) helpView() string {
	lines := []string{
		"Navigation:",
		"  j/k or arrows move, g/G jump top/bottom, pgup/pgdown jump page",
		"Loading:",
		"  rows load in the background as you approach the end of the list",
		"  enter re-requests the current row after a failed fetch",
		"Reset:",
		"  r discards the collection and reloads the first batch",
	}
	return strings.Join(lines, "\n")
}

// Cursor is exposed for wiring and tests.
func (m Model) Cursor() int {
	return m.cursor
}
