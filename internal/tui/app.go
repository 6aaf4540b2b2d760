package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard and blocks until the user quits. bubbletea owns
// the terminal as a scoped resource: raw mode and the alternate screen are
// released on every exit path, including errors and panics.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
