package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"resume-chat/internal/models"
	"resume-chat/internal/rag"
)

// Answerer is the TUI-facing side of the router.
type Answerer interface {
	Answer(ctx context.Context, query string, sess rag.Session) (models.Reply, rag.Session)
}

type turn struct {
	question string
	reply    models.Reply
}

type answerMsg struct {
	question string
	reply    models.Reply
	session  rag.Session
}

// Model is a single-session chat over the router.
type Model struct {
	ctx        context.Context
	router     Answerer
	title      string
	input      textinput.Model
	viewport   viewport.Model
	session    rag.Session
	transcript []turn
	status     string
	busy       bool
	ready      bool
}

func New(ctx context.Context, router Answerer, persona string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about " + persona + "'s experience and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		ctx:      ctx,
		router:   router,
		title:    persona + "'s resume chat",
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ready. Ctrl+C to quit.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input line + spacer
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil
	case answerMsg:
		m.busy = false
		m.session = msg.session
		m.transcript = append(m.transcript, turn{question: msg.question, reply: msg.reply})
		m.status = statusLine(msg.reply, m.session)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if m.busy {
				return m, nil
			}
			q := m.input.Value()
			m.input.Reset()
			m.busy = true
			m.status = "Thinking…"
			return m, m.ask(q, m.session)
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the router off the update loop; the session travels with the
// message so the model stays the only owner of its state.
func (m Model) ask(q string, sess rag.Session) tea.Cmd {
	return func() tea.Msg {
		reply, next := m.router.Answer(m.ctx, q, sess)
		return answerMsg{question: q, reply: reply, session: next}
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render(m.title)
	body := transcriptBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + body + "\n" + input + "\n" + status
}

// Session returns the current router session.
func (m Model) Session() rag.Session { return m.session }

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return mutedStyle.Render("No questions yet.")
	}
	width := max(10, m.viewport.Width-2)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, t := range m.transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		if strings.TrimSpace(t.question) != "" {
			b.WriteString(userStyle.Render("You: "))
			b.WriteString(wrap.Render(t.question))
			b.WriteString("\n")
		}
		style := botStyle
		if t.reply.Kind == models.ReplyFailure {
			style = errorStyle
		}
		b.WriteString(style.Render("Bot: "))
		b.WriteString(wrap.Render(t.reply.Text))
		b.WriteString("\n")
		if src := sourcesLine(t.reply.Sources); src != "" {
			b.WriteString(mutedStyle.Render(src))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func sourcesLine(chunks []models.ScoredChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("%s p.%d (%.2f)", c.SourceFilename, c.PageNumber, c.Similarity)
	}
	return "sources: " + strings.Join(parts, ", ")
}

func statusLine(reply models.Reply, sess rag.Session) string {
	switch reply.Kind {
	case models.ReplyCanned:
		return fmt.Sprintf("Canned answer (%s)", reply.Category)
	case models.ReplyFailure:
		if reply.Err != nil {
			return "Error: " + reply.Err.Error()
		}
		return "Error"
	default:
		return fmt.Sprintf("%s answer, miss streak %d", reply.Kind, sess.MissStreak)
	}
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)
