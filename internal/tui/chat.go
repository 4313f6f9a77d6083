package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	chatHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	chatHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Lines used by the header, the input line and the hint line.
const chatChromeHeight = 4

type replyMsg struct {
	text string
}

type transcriptEntry struct {
	user bool
	text string
}

type chatModel struct {
	ctx        context.Context
	send       func(ctx context.Context, message string) string
	input      textinput.Model
	viewport   viewport.Model
	transcript []transcriptEntry
	waiting    bool
	frame      int
	width      int
	ready      bool
}

func newChatModel(ctx context.Context, send func(ctx context.Context, message string) string) chatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about careers, skills, or next steps"
	ti.Prompt = "> "
	ti.CharLimit = 1000
	ti.Focus()

	return chatModel{
		ctx:   ctx,
		send:  send,
		input: ti,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(1, msg.Height-chatChromeHeight)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.input.Width = max(10, msg.Width-4)
		m.refresh()
		return m, nil

	case replyMsg:
		m.waiting = false
		m.transcript = append(m.transcript, transcriptEntry{text: msg.text})
		m.refresh()
		return m, nil

	case spinnerTickMsg:
		if !m.waiting {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}
			m.input.SetValue("")
			m.transcript = append(m.transcript, transcriptEntry{user: true, text: text})
			m.waiting = true
			m.refresh()
			return m, tea.Batch(m.ask(text), tick())
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) ask(text string) tea.Cmd {
	ctx, send := m.ctx, m.send
	return func() tea.Msg {
		return replyMsg{text: send(ctx, text)}
	}
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	wrap := lipgloss.NewStyle().Width(max(10, m.width-2))
	var b strings.Builder
	for _, e := range m.transcript {
		if e.user {
			b.WriteString(userStyle.Render("You") + "\n")
		} else {
			b.WriteString(assistantStyle.Render("Advisor") + "\n")
		}
		b.WriteString(wrap.Render(e.text) + "\n\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m chatModel) View() string {
	if !m.ready {
		return "Starting chat..."
	}
	status := chatHintStyle.Render("enter send  pgup/pgdn scroll  esc quit")
	if m.waiting {
		status = spinnerStyle.Render(spinnerFrames[m.frame]) + chatHintStyle.Render(" thinking...")
	}
	return chatHeaderStyle.Render("Career chat") + "\n" +
		m.viewport.View() + "\n" +
		m.input.View() + "\n" +
		status
}

// RunChat starts a full-screen chat session. send is called once per user
// message and its reply is appended to the transcript.
func RunChat(ctx context.Context, send func(ctx context.Context, message string) string) error {
	p := tea.NewProgram(newChatModel(ctx, send), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
