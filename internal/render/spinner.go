package render

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

type spinDoneMsg struct{ err error }

type spinModel struct {
	sp    spinner.Model
	label string
	fn    func() error
	err   error
}

func (m spinModel) Init() tea.Cmd {
	return tea.Batch(m.sp.Tick, func() tea.Msg { return spinDoneMsg{m.fn()} })
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinDoneMsg:
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinModel) View() string {
	return m.sp.View() + " " + m.label
}

// Spin runs fn behind a spinner while a terminal is attached; otherwise
// it just calls fn. Returns fn's error.
func Spin(label string, fn func() error) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fn()
	}

	m := spinModel{
		sp:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		label: label,
		fn:    fn,
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return fmt.Errorf("running spinner: %w", err)
	}
	if fm, ok := final.(spinModel); ok {
		return fm.err
	}
	return nil
}
