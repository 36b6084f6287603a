// Package ui is the terminal dialog of a study trial: the reference movie, its
// perspectives, the display grid and the questionnaire.
package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"moviestudy/internal/config"
	"moviestudy/internal/session"
)

type screenState int

const (
	loadingScreen screenState = iota
	studyScreen
	quitConfirmationScreen
)

const (
	defaultWidth  = 120
	defaultHeight = 40
	footerHeight  = 2
)

var errNoPosterURL = errors.New("no poster url")

// Study is everything the dialog shows for one trial.
type Study struct {
	Movie        string
	Overview     string
	PosterURL    string
	Perspectives []string
	Slots        []Candidate
}

// Candidate fills one display slot.
type Candidate struct {
	Movie      string
	Text       string
	PosterURL  string
	Similarity float64
}

// PosterFetcher renders the poster at url as terminal cells.
type PosterFetcher interface {
	FetchCells(ctx context.Context, url string, width int) (string, error)
}

type Options struct {
	Survey      config.SurveyConfig
	PosterWidth int
	Fetcher     PosterFetcher
}

// posterMsg carries the poster at position index: 0 is the reference movie,
// 1..n are the display slots.
type posterMsg struct {
	index int
	cells string
	err   error
}

type model struct {
	ctx   context.Context
	study Study
	opts  Options

	currentScreen  screenState
	previousScreen screenState
	spinner        spinner.Model
	viewport       viewport.Model
	loaded         int

	selectedPoster string
	slotPosters    [config.MaxSlots]string
	progressBars   [config.MaxSlots]progress.Model

	comments  [config.QuestionCount]textarea.Model
	seen      choice
	questions [config.QuestionCount]choice
	relevant  [config.MaxSlots]bool

	ring  []focusTarget
	focus int

	submitted bool
	response  session.Response
}

func newModel(ctx context.Context, study Study, opts Options) model {
	if len(study.Slots) > config.MaxSlots {
		study.Slots = study.Slots[:config.MaxSlots]
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#C967E3"))

	m := model{
		ctx:           ctx,
		study:         study,
		opts:          opts,
		currentScreen: loadingScreen,
		spinner:       s,
		viewport:      viewport.New(defaultWidth, defaultHeight-footerHeight),
	}

	for i := range m.comments {
		ta := textarea.New()
		ta.Placeholder = fmt.Sprintf("Your thoughts on perspective %d...", i+1)
		ta.SetWidth(commentWidth)
		ta.SetHeight(3)
		ta.ShowLineNumbers = false
		m.comments[i] = ta
	}

	m.seen = newChoice("Have you seen this movie before?", opts.Survey.SeenOptions)
	for i := range m.questions {
		if i < len(opts.Survey.Questions) {
			q := opts.Survey.Questions[i]
			m.questions[i] = newChoice(q.Label, q.Options)
		}
	}

	for i := range m.progressBars {
		prog := progress.New(progress.WithDefaultGradient())
		prog.Width = m.cardWidth() - 4
		m.progressBars[i] = prog
	}

	m.ring = focusRing(len(m.comments), len(study.Slots), len(m.questions))
	m.comments[0].Focus()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, textarea.Blink, m.fetchPoster(0))
}

// fetchPoster downloads one poster. The next one is requested only when this
// one arrives, so downloads never overlap.
func (m model) fetchPoster(index int) tea.Cmd {
	url := m.study.PosterURL
	if index > 0 {
		url = m.study.Slots[index-1].PosterURL
	}
	ctx, fetcher, width := m.ctx, m.opts.Fetcher, m.opts.PosterWidth

	return func() tea.Msg {
		if url == "" {
			return posterMsg{index: index, err: errNoPosterURL}
		}
		cells, err := fetcher.FetchCells(ctx, url, width)
		return posterMsg{index: index, cells: cells, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case posterMsg:
		m.storePoster(msg)
		m.loaded++
		if msg.index < len(m.study.Slots) {
			return m, m.fetchPoster(msg.index + 1)
		}
		if m.currentScreen == quitConfirmationScreen {
			m.previousScreen = studyScreen
		} else {
			m.currentScreen = studyScreen
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.currentScreen == loadingScreen {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-footerHeight, 1)
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		if m.currentScreen == studyScreen {
			m.viewport, cmd = m.viewport.Update(msg)
		}
		return m, cmd

	case tea.KeyMsg:
		switch m.currentScreen {
		case quitConfirmationScreen:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N", "esc", "ctrl+c":
				m.currentScreen = m.previousScreen
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			m.previousScreen = m.currentScreen
			m.currentScreen = quitConfirmationScreen
			return m, nil
		}

		if m.currentScreen == studyScreen {
			return m.updateStudy(msg)
		}
		return m, nil
	}

	if t := m.ring[m.focus]; m.currentScreen == studyScreen && t.kind == focusComment {
		m.comments[t.index], cmd = m.comments[t.index].Update(msg)
	}
	return m, cmd
}

func (m model) updateStudy(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "tab":
		cmd = m.moveFocus(1)
		return m, cmd
	case "shift+tab":
		cmd = m.moveFocus(-1)
		return m, cmd
	case "ctrl+s":
		return m.submit()
	case "pgup", "pgdown":
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch t := m.ring[m.focus]; t.kind {
	case focusComment:
		m.comments[t.index], cmd = m.comments[t.index].Update(msg)
	case focusSlot:
		switch msg.String() {
		case " ", "space", "x", "enter":
			m.relevant[t.index] = !m.relevant[t.index]
		}
	case focusSeen:
		cycle(&m.seen, msg)
	case focusQuestion:
		cycle(&m.questions[t.index], msg)
	case focusNext:
		switch msg.String() {
		case "enter", " ", "space":
			return m.submit()
		}
	}

	m.refresh()
	return m, cmd
}

func cycle(c *choice, msg tea.KeyMsg) {
	switch msg.String() {
	case "right", "l", " ", "space":
		c.next()
	case "left", "h":
		c.prev()
	}
}

func (m *model) moveFocus(delta int) tea.Cmd {
	if t := m.ring[m.focus]; t.kind == focusComment {
		m.comments[t.index].Blur()
	}
	m.focus = (m.focus + delta + len(m.ring)) % len(m.ring)

	var cmd tea.Cmd
	if t := m.ring[m.focus]; t.kind == focusComment {
		cmd = m.comments[t.index].Focus()
	}
	m.refresh()
	return cmd
}

func (m *model) storePoster(msg posterMsg) {
	width := m.opts.PosterWidth
	cells := msg.cells
	if msg.err != nil {
		movie := m.study.Movie
		if msg.index > 0 {
			movie = m.study.Slots[msg.index-1].Movie
		}
		log.Warn().Err(msg.err).Str("movie", movie).Msg("poster unavailable")
		cells = placeholderCells(width, "poster unavailable")
	}

	if msg.index == 0 {
		m.selectedPoster = cells
	} else {
		m.slotPosters[msg.index-1] = cells
	}
}

func (m *model) refresh() {
	if m.currentScreen == studyScreen || m.previousScreen == studyScreen {
		m.viewport.SetContent(m.renderStudy())
	}
}

func (m model) submit() (tea.Model, tea.Cmd) {
	m.response = m.buildResponse()
	m.submitted = true
	return m, tea.Quit
}

func (m model) buildResponse() session.Response {
	r := session.Response{Seen: m.seen.value()}
	for i, q := range m.questions {
		r.Choices[i] = q.value()
	}
	for i, c := range m.comments {
		r.Comments[i] = c.Value()
	}
	for i := range m.study.Slots {
		r.Relevant[i] = m.relevant[i]
	}
	return r
}

// Run shows the dialog until the participant submits or quits. submitted is
// false when the participant quit without answering.
func Run(ctx context.Context, study Study, opts Options) (resp session.Response, submitted bool, err error) {
	p := tea.NewProgram(newModel(ctx, study, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return session.Response{}, false, err
	}
	m := final.(model)
	return m.response, m.submitted, nil
}
