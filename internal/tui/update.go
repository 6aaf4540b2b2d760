package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
)

// scroll step sizes
const (
	pageStep  = 10
	wheelStep = 3
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		if m.warming {
			return m.updateWarmup()
		}
		if m.drain() {
			m.recompute()
		}
		return m, tickCmd()

	case probeMsg:
		m.connStatus = domain.ConnectionStatus(msg)
		return m, probeCmd(m.opts.Probe)

	case spinner.TickMsg:
		if !m.warming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// updateWarmup advances the warm-up phase: collect an initial batch of
// entries, or give up after enough consecutive empty polls, so the first
// full draw is not an empty flicker on a fast stream.
func (m Model) updateWarmup() (tea.Model, tea.Cmd) {
	before := m.store.Len()
	m.drain()
	got := m.store.Len() - before

	if got > 0 {
		m.collected += got
		m.emptyPolls = 0
	} else {
		m.emptyPolls++
	}

	if m.collected >= constants.WarmupBatchSize ||
		m.emptyPolls >= constants.WarmupMaxEmptyPolls ||
		m.sourceDone {
		m.warming = false
		m.recompute()
		m.scroll = maxInt(len(m.filtered)-1, 0)
	}
	return m, tickCmd()
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchMode {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "1":
		m.view = ViewLogs
	case "2":
		m.view = ViewStats
	case "3":
		m.view = ViewStorage

	case " ":
		m.paused = !m.paused

	case "t":
		m.tail = !m.tail
		if m.tail {
			m.scroll = maxInt(len(m.filtered)-1, 0)
		}

	case "/":
		m.searchMode = true
		m.searchInput.Focus()

	case "e":
		m.toggleLevel(domain.LevelError)
	case "w":
		m.toggleLevel(domain.LevelWarning)
	case "i":
		m.toggleLevel(domain.LevelInfo)
	case "d":
		m.toggleLevel(domain.LevelDebug)
	case "v":
		m.toggleLevel(domain.LevelVerbose)

	case "up", "k":
		m.scrollUp(1)
	case "down", "j":
		m.scrollDown(1)
	case "pgup":
		m.tail = false
		m.scroll = maxInt(m.scroll-pageStep, 0)
	case "pgdown":
		m.scrollDown(pageStep)

	case "home", "g":
		m.scroll = 0
	case "end", "G":
		m.scroll = maxInt(len(m.filtered)-1, 0)

	case "y", "c":
		m.copySelected()
	}

	return m, nil
}

// handleSearchKey processes keyboard input in search mode. Every edit
// recomputes the filtered view; Enter keeps the query while leaving the
// mode, Esc clears it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchMode = false
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.statusMsg = ""
		m.recompute()
		return m, nil

	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		m.statusMsg = ""
		m.recompute()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.recompute()
	return m, cmd
}

// handleMouse maps wheel movement onto the scroll position
func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress {
			m.scrollUp(wheelStep)
		}
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress {
			m.scrollDown(wheelStep)
		}
	}
}

// scrollUp moves towards older entries; any upward movement disarms tail
func (m *Model) scrollUp(step int) {
	if m.scroll > 0 {
		m.tail = false
		m.scroll = maxInt(m.scroll-step, 0)
	}
}

// scrollDown moves towards newer entries; landing exactly on the last index
// re-arms tail mode
func (m *Model) scrollDown(step int) {
	last := len(m.filtered) - 1
	if m.scroll < last {
		m.scroll = minInt(m.scroll+step, last)
		if m.scroll == last {
			m.tail = true
		}
	}
}

// toggleLevel flips a level filter and recomputes. Tail mode is untouched;
// the recompute re-pins if it is armed.
func (m *Model) toggleLevel(level domain.Level) {
	m.levels.Toggle(level)
	m.recompute()
}

// copySelected puts the entry under the cursor on the clipboard.
// Best-effort: a clipboard failure is swallowed, per the transient-I/O
// policy.
func (m *Model) copySelected() {
	entry, ok := m.selected()
	if !ok {
		return
	}
	text := fmt.Sprintf("%s [%s] %s: %s", entry.Timestamp, entry.Tag, entry.Level, entry.Message)
	if err := m.copyFn(text); err == nil {
		m.setStatus("Log copied to clipboard")
	}
}
