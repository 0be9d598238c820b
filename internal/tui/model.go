package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lightrag/internal/domain"
	"lightrag/internal/service"
	"lightrag/internal/summarizer"
)

// Port is the part of the retriever the TUI needs.
type Port interface {
	Retrieve(ctx context.Context, query string, limit int, mode domain.RetrievalMode) ([]domain.RetrievalResult, error)
	Stats() service.Stats
}

// Options are the query settings the screen starts with.
type Options struct {
	Limit           int
	Mode            domain.RetrievalMode
	DigestSentences int
}

// Model is the Bubble Tea model for the query screen.
type Model struct {
	port     Port
	opts     Options
	digester *summarizer.Digester
	input    textinput.Model
	viewport viewport.Model
	results  []domain.RetrievalResult
	mode     domain.RetrievalMode
	digest   string
	status   string
	cursor   int
	ready    bool
	query    string
}

// New returns a model with a focused query input.
func New(port Port, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask something and press Enter (Tab switches mode)"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		port:     port,
		opts:     opts,
		digester: summarizer.New(),
		input:    ti,
		viewport: viewport.New(0, 0),
		mode:     opts.Mode,
		status:   "Index ready. Type to search.",
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles resizing, quitting, queries (Enter), mode switching (Tab)
// and result paging (Up/Down).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 3 + 1 + qh + 1 // header, stats, digest; status; input box; spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if q := strings.TrimSpace(m.input.Value()); q != "" {
				m.runQuery(q)
				return m, nil
			}
		case "tab":
			m.mode = m.mode.Next()
			if m.query != "" {
				m.runQuery(m.query)
			} else {
				m.status = "Mode: " + m.mode.String()
			}
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) runQuery(q string) {
	res, err := m.port.Retrieve(context.Background(), q, m.opts.Limit, m.mode)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.results = nil
		m.digest = ""
	} else {
		m.status = fmt.Sprintf("%d results for %q (%s)", len(res), q, m.mode)
		m.results = res
		m.digest = m.digester.Digest(res, m.opts.DigestSentences)
	}
	m.cursor = 0
	m.query = q
	m.viewport.SetContent(m.renderCurrentResult())
}

// View renders the header, digest, current result, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	st := m.port.Stats()
	header := lipgloss.NewStyle().Bold(true).Render("LightRAG") + "  " +
		dimStyle.Render("mode: "+m.mode.String())
	stats := dimStyle.Render(fmt.Sprintf("%d chunks  %d entities  %d relations  backend %s/%d",
		st.Chunks, st.Nodes, st.Edges, st.Backend, st.Dimension))
	digest := digestStyle.Render(m.digest)
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return strings.Join([]string{header, stats, digest, results, input, status}, "\n")
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  score=%.3f  source=%s", m.cursor+1, len(m.results), r.Score, r.Chunk.Source)

	terms := append([]string{m.query}, r.MatchedEntities...)
	sentences, best := m.digester.BestSentence(r.Chunk.Text, terms)
	for i := range sentences {
		if i == best {
			sentences[i] = highlightStyle.Render(sentences[i])
		}
	}
	body := strings.Join(sentences, " ")

	var lines []string
	lines = append(lines, title, "", body)
	if len(r.MatchedEntities) > 0 {
		lines = append(lines, "", "matched: "+strings.Join(r.MatchedEntities, ", "))
	}
	if len(r.RelatedEntities) > 0 {
		lines = append(lines, "related: "+strings.Join(r.RelatedEntities, ", "))
	}
	return strings.Join(lines, "\n")
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	digestStyle    = lipgloss.NewStyle().Italic(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
