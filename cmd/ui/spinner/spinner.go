package spinner

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var dotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3C9DFF"))

// Model renders a one-line spinner next to a status message. The program
// hosting it is quit externally once the wrapped work finishes.
type Model struct {
	spin    spinner.Model
	message string
	done    bool
}

func New(message string) Model {
	return Model{
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(dotStyle)),
		message: message,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	line := m.spin.View() + " " + m.message
	if m.done {
		line += "\n"
	}
	return line
}
