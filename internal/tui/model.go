// Package tui is the terminal edition of the portfolio: the hero typewriter
// and the chat widget, driven by bubbletea's clock instead of browser timers.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/portfolio/internal/chat"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/responder"
	"github.com/Zachkp/portfolio/internal/typewriter"
)

// maxVisibleEntries caps how much of the transcript is drawn.
const maxVisibleEntries = 12

type typeTickMsg struct{}

type replyMsg struct {
	input string
}

var (
	nameStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22d3ee"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#a78bfa"))
	heroStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e5e7eb"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22d3ee")).Blink(true)
	visitorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f172a")).Background(lipgloss.Color("#22d3ee")).Padding(0, 1)
	responderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#a78bfa")).Padding(0, 1)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// Model is the bubbletea model.
type Model struct {
	name  string
	title string

	seq  *typewriter.Sequencer
	hero string

	responder  *responder.Responder
	replyDelay time.Duration
	transcript chat.Transcript
	input      textinput.Model

	width int
}

// New builds the model from content.
func New(c *content.Content, r *responder.Responder, replyDelay time.Duration) (Model, error) {
	seq, err := typewriter.New(c.Hero.Phrases)
	if err != nil {
		return Model{}, err
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask me anything..."
	ti.CharLimit = 500
	ti.Focus()

	var transcript chat.Transcript
	if c.Chat.Greeting != "" {
		transcript = transcript.Append(chat.Entry{Author: chat.AuthorResponder, Text: c.Chat.Greeting, At: time.Now()})
	}

	return Model{
		name:       c.Hero.Name,
		title:      c.Hero.Title,
		seq:        seq,
		responder:  r,
		replyDelay: replyDelay,
		transcript: transcript,
		input:      ti,
		width:      80,
	}, nil
}

func typeTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return typeTickMsg{} })
}

// Init starts the typewriter and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, typeTick(typewriter.TypeDelay))
}

// Update handles keys, typewriter ticks and delayed replies.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.input.Value()
			next, ok := chat.Submit(m.transcript, input, time.Now())
			if !ok {
				return m, nil
			}
			m.transcript = next
			m.input.Reset()
			return m, tea.Tick(m.replyDelay, func(time.Time) tea.Msg { return replyMsg{input: input} })
		}

	case typeTickMsg:
		frame := m.seq.Advance()
		m.hero = frame.Text
		return m, typeTick(frame.Wait)

	case replyMsg:
		reply := m.responder.Reply(msg.input)
		m.transcript = m.transcript.Append(chat.Entry{
			Author:   chat.AuthorResponder,
			Text:     reply.Text,
			Category: reply.Category,
			At:       time.Now(),
		})
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the hero and the chat widget.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(nameStyle.Render(m.name))
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(heroStyle.Render(m.hero))
	b.WriteString(cursorStyle.Render("|"))
	b.WriteString("\n\n")

	bubbleWidth := max(m.width*2/3, 20)
	entries := m.transcript.Entries()
	if len(entries) > maxVisibleEntries {
		entries = entries[len(entries)-maxVisibleEntries:]
	}
	for _, e := range entries {
		if e.Author == chat.AuthorVisitor {
			line := visitorStyle.MaxWidth(bubbleWidth).Render(e.Text)
			b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, line))
		} else {
			b.WriteString(responderStyle.Width(bubbleWidth).Render(e.Text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: send • esc: quit"))
	return b.String()
}

// Transcript returns the conversation so far.
func (m Model) Transcript() chat.Transcript {
	return m.transcript
}

// Run starts the program and blocks until the user quits.
func Run(c *content.Content, r *responder.Responder, replyDelay time.Duration) error {
	m, err := New(c, r, replyDelay)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
