package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
)

// layout chrome: tab line, status line, help line
const chromeLines = 3

// View renders the dashboard
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.warming {
		return m.warmupView()
	}

	var sb strings.Builder
	sb.WriteString(m.tabLine())
	sb.WriteString("\n")

	switch m.view {
	case ViewLogs:
		sb.WriteString(m.logsView())
	case ViewStats:
		sb.WriteString(m.statsView())
	case ViewStorage:
		sb.WriteString(m.storageView())
	}
	sb.WriteString("\n")

	sb.WriteString(m.statusLine())
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(helpText))
	return sb.String()
}

const helpText = "1-3: Views | Space: Pause | t: Tail | /: Search | y: Copy | e/w/i/d/v: Filters | ↑/↓: Scroll | End/G: Latest | Home/g: First | q: Quit"

// warmupView renders the centered spinner shown while the initial batch is
// collected
func (m Model) warmupView() string {
	var status string
	if m.collected == 0 {
		status = fmt.Sprintf("%s Waiting for logs...", spinnerStyle.Render(m.spin.View()))
	} else {
		status = fmt.Sprintf("%s Collecting logs %d/%d", spinnerStyle.Render(m.spin.View()), m.collected, constants.WarmupBatchSize)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, status)
}

// tabLine renders the view tabs with the connection indicator right-aligned
func (m Model) tabLine() string {
	var tabs []string
	for _, v := range []View{ViewLogs, ViewStats, ViewStorage} {
		if v == m.view {
			tabs = append(tabs, activeTabStyle.Render(fmt.Sprintf("%d:%s", int(v)+1, v)))
		} else {
			tabs = append(tabs, tabStyle.Render(fmt.Sprintf("%d:%s", int(v)+1, v)))
		}
	}
	left := strings.Join(tabs, "")
	right := connIndicator(m.connStatus)

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return headerStyle.Width(m.width).Render(left + strings.Repeat(" ", pad) + right)
}

// contentHeight is how many log rows fit in the main area
func (m Model) contentHeight() int {
	h := m.height - chromeLines
	if h < 1 {
		h = 1
	}
	return h
}

// logsView renders the window of filtered entries around the scroll position
func (m Model) logsView() string {
	rows := m.contentHeight()
	total := len(m.filtered)

	// In tail mode the window hugs the end; otherwise the scroll position
	// is the top of the window.
	start := m.scroll
	if m.tail {
		start = maxInt(total-rows, 0)
	}
	if start > total {
		start = total
	}

	lines := make([]string, 0, rows)
	for _, idx := range m.filtered[start:minInt(start+rows, total)] {
		entry, ok := m.store.Get(idx)
		if !ok {
			continue
		}
		lines = append(lines, m.formatEntry(entry))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// formatEntry renders one log row, truncated to the terminal width
func (m Model) formatEntry(entry domain.LogEntry) string {
	const tagWidth = 12

	tag := entry.Tag
	if len(tag) > tagWidth {
		tag = tag[:tagWidth]
	}

	line := fmt.Sprintf("%s %-18s [%-*s] %-7s %s",
		levelIcon(entry.Level),
		entry.Timestamp,
		tagWidth, tag,
		entry.Level.String(),
		entry.Message,
	)
	if m.width > 0 && len(line) > m.width {
		line = line[:m.width]
	}
	return levelStyle(entry.Level).Render(line)
}

// statsView renders per-level counters
func (m Model) statsView() string {
	rows := []string{
		"",
		"  Log Statistics:",
		"",
		fmt.Sprintf("  %s  Errors:   %d", errorStyle.Render("✖"), m.stats.Errors),
		fmt.Sprintf("  %s  Warnings: %d", warningStyle.Render("▲"), m.stats.Warnings),
		fmt.Sprintf("  %s  Info:     %d", infoStyle.Render("●"), m.stats.Infos),
		fmt.Sprintf("  %s  Debug:    %d", debugStyle.Render("◆"), m.stats.Debugs),
		fmt.Sprintf("  %s  Verbose:  %d", verboseStyle.Render("·"), m.stats.Verboses),
		"",
		fmt.Sprintf("  Total Logs:   %d", m.stats.Total()),
		fmt.Sprintf("  Memory Usage: %d/%d entries", m.store.Len(), m.store.Capacity()),
	}
	return m.padContent(rows)
}

// storageView renders the latest storage snapshot
func (m Model) storageView() string {
	var rows []string
	if m.storageStatus != nil {
		rows = []string{
			"",
			"  Storage Information:",
			"",
			fmt.Sprintf("  Current File: %s", m.storageStatus.CurrentFile),
			fmt.Sprintf("  Total Size:   %.2f MB", float64(m.storageStatus.TotalSize)/(1024*1024)),
			fmt.Sprintf("  File Count:   %d", m.storageStatus.FileCount),
		}
	} else if m.opts.StorageEnabled {
		rows = []string{"", "  Storage enabled, waiting for the first write..."}
	} else {
		rows = []string{"", "  Storage not enabled", "", "  Use --save to persist logs to disk"}
	}
	return m.padContent(rows)
}

// padContent fills the main area to its full height
func (m Model) padContent(rows []string) string {
	for len(rows) < m.contentHeight() {
		rows = append(rows, "")
	}
	return strings.Join(rows[:m.contentHeight()], "\n")
}

// statusLine renders the bottom status bar: filter letters, run state, tail
// state, counts, and position — or the search prompt / transient message.
func (m Model) statusLine() string {
	if m.searchMode {
		return statusStyle.Width(m.width).Render(
			fmt.Sprintf("Search: %s | Enter: confirm  Esc: cancel  (%d matches)",
				m.searchInput.View(), len(m.filtered)))
	}
	if m.statusFresh() {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	letters := make([]string, 0, 5)
	for _, l := range []domain.Level{
		domain.LevelError, domain.LevelWarning, domain.LevelInfo,
		domain.LevelDebug, domain.LevelVerbose,
	} {
		if m.levels.Contains(l) {
			letters = append(letters, levelStyle(l).Render(l.Letter()))
		} else {
			letters = append(letters, dimStyle.Render("-"))
		}
	}

	run := runningStyle.Render("RUNNING")
	if m.paused {
		run = pausedStyle.Render("PAUSED")
	}
	mode := tailStyle.Render("TAIL")
	if !m.tail {
		mode = scrollStyle.Render("SCROLL")
	}

	pos := 0
	if len(m.filtered) > 0 {
		pos = m.scroll + 1
	}
	s := fmt.Sprintf("[%s] %s %s | %d logs | Position: %d/%d",
		strings.Join(letters, " "), run, mode, len(m.filtered), pos, len(m.filtered))
	if m.query() != "" {
		s += fmt.Sprintf(" | Filter: %q", m.query())
	}
	if m.sourceDone {
		s += " | " + dimStyle.Render("source ended")
	}
	return statusStyle.Width(m.width).Render(s)
}
