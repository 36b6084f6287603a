package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moviestudy/internal/config"
	"moviestudy/internal/poster"
)

const (
	commentWidth = 72
	snippetRunes = 320
	gridColumns  = 3
)

var (
	staticTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9567E3")).
			Bold(true)

	userInputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C967E3")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9567E3")).
			Foreground(lipgloss.Color("#C967E3")).
			Bold(true).
			Align(lipgloss.Center).
			Width(78)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9567E3")).
			Bold(true)

	instructStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	activeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C967E3"))

	inactiveStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666"))

	emptyStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.HiddenBorder())

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#666666"))

	activeButtonStyle = buttonStyle.
				Background(lipgloss.Color("#9567E3")).
				Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true).
			Align(lipgloss.Center).
			Width(80)
)

func (m model) View() string {
	switch m.currentScreen {
	case loadingScreen:
		return m.renderLoadingScreen()
	case quitConfirmationScreen:
		return m.renderQuitConfirmationScreen()
	default:
		return m.viewport.View() + "\n" + m.renderHelp()
	}
}

func (m model) cardWidth() int {
	return max(m.opts.PosterWidth+4, 32)
}

func (m model) focused(kind focusKind, index int) bool {
	t := m.ring[m.focus]
	return t.kind == kind && t.index == index
}

func (m model) renderStudy() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("🎬 MOVIE STUDY 🎬"),
		"",
		m.renderSelected(),
		"",
		m.renderPerspectives(),
		"",
		labelStyle.Render("Movies suggested from these perspectives:"),
		m.renderGrid(),
		"",
		m.renderSurvey(),
		"",
	)
}

func (m model) renderSelected() string {
	textWidth := max(m.viewport.Width-m.opts.PosterWidth-4, 40)
	overview := lipgloss.JoinVertical(lipgloss.Left,
		userInputStyle.Render(m.study.Movie),
		"",
		lipgloss.NewStyle().Width(textWidth).Render(PlainText(m.study.Overview)),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.selectedPoster, "  ", overview)
}

func (m model) renderPerspectives() string {
	blocks := make([]string, 0, len(m.comments))
	for i, ta := range m.comments {
		text := "(no further perspective)"
		if i < len(m.study.Perspectives) {
			text = truncate(PlainText(m.study.Perspectives[i]), snippetRunes)
		}

		box := inactiveStyle
		if m.focused(focusComment, i) {
			box = activeStyle
		}
		blocks = append(blocks,
			staticTextStyle.Render(fmt.Sprintf("📝 Perspective %d", i+1)),
			lipgloss.NewStyle().Width(commentWidth).Render(text),
			box.Render(ta.View()),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// renderGrid lays out the fixed slots three per row. Slots the selector left
// empty keep their place so the grid shape never changes.
func (m model) renderGrid() string {
	rows := make([]string, 0, config.MaxSlots/gridColumns)
	for start := 0; start < config.MaxSlots; start += gridColumns {
		cards := make([]string, 0, gridColumns)
		for i := start; i < start+gridColumns; i++ {
			cards = append(cards, m.renderSlot(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m model) renderSlot(i int) string {
	width := m.cardWidth()
	if i >= len(m.study.Slots) {
		return emptyStyle.Width(width).Render(
			instructStyle.Render(fmt.Sprintf("%d. no suggestion", i+1)))
	}

	slot := m.study.Slots[i]
	box := inactiveStyle
	if m.focused(focusSlot, i) {
		box = activeStyle
	}
	check := "[ ] relevant"
	if m.relevant[i] {
		check = "[x] relevant"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(fmt.Sprintf("%d. %s", i+1, slot.Movie)),
		m.slotPosters[i],
		lipgloss.NewStyle().Width(width).Render(truncate(PlainText(slot.Text), snippetRunes)),
		m.progressBars[i].ViewAs(clamp01(slot.Similarity)),
		check,
	)
	return box.Width(width).Render(body)
}

func (m model) renderSurvey() string {
	lines := []string{m.renderChoice(m.seen, m.focused(focusSeen, 0))}
	for i, q := range m.questions {
		lines = append(lines, m.renderChoice(q, m.focused(focusQuestion, i)))
	}

	button := buttonStyle
	if m.focused(focusNext, 0) {
		button = activeButtonStyle
	}
	lines = append(lines, "", button.Render("Next ▶"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m model) renderChoice(c choice, focused bool) string {
	value := fmt.Sprintf("‹ %s ›", c.value())
	if focused {
		value = userInputStyle.Render(value)
	}
	return labelStyle.Render(c.label) + "  " + value
}

func (m model) renderHelp() string {
	return instructStyle.Render("💡 Tab/Shift+Tab move • ←/→ change answer • Space toggle • Ctrl+S or Next submits • PgUp/PgDn scroll • Esc quit")
}

func (m model) renderLoadingScreen() string {
	s := headerStyle.Render("🤖 PREPARING YOUR MOVIE 🤖") + "\n\n"
	s += fmt.Sprintf("  %s Loading posters (%d/%d)...\n", m.spinner.View(), m.loaded, len(m.study.Slots)+1)
	return s
}

func (m model) renderQuitConfirmationScreen() string {
	s := headerStyle.Render("⚠️  WARNING ⚠️\nAre you sure you want to quit?") + "\n\n"
	s += warningStyle.Render("Your answers for this movie will not be saved!") + "\n\n"
	s += staticTextStyle.Align(lipgloss.Center).Width(80).
		Render("Press Y to quit • Press N to cancel • Press Esc to cancel") + "\n"
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// placeholderCells sizes an empty poster area to match loaded posters.
func placeholderCells(width int, label string) string {
	return poster.Placeholder(width, poster.CellHeight(width), label)
}
