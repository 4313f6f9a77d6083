package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

// ErrCancelled is returned when the user interrupts a TUI with ctrl+c.
var ErrCancelled = errors.New("cancelled")

type workDoneMsg[T any] struct {
	result T
}

type spinnerTickMsg struct{}

type loaderModel[T any] struct {
	ctx    context.Context
	label  string
	workFn func(ctx context.Context) T
	frame  int
	result T
	err    error
	done   bool
}

func (m loaderModel[T]) Init() tea.Cmd {
	return tea.Batch(m.doWork(), tick())
}

func (m loaderModel[T]) doWork() tea.Cmd {
	ctx, workFn := m.ctx, m.workFn
	return func() tea.Msg {
		return workDoneMsg[T]{result: workFn(ctx)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg[T]:
		m.result = msg.result
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel[T]) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s...\n", spinnerStyle.Render(spinnerFrames[m.frame]), m.label)
}

// RunLoader shows a spinner on out while workFn runs. It renders inline (no
// alt screen), so out is usually stderr and stdout stays clean for results.
func RunLoader[T any](ctx context.Context, out io.Writer, label string, workFn func(ctx context.Context) T) (T, error) {
	m := loaderModel[T]{
		ctx:    ctx,
		label:  label,
		workFn: workFn,
	}
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil {
		var zero T
		return zero, err
	}
	final := result.(loaderModel[T])
	return final.result, final.err
}
