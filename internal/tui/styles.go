package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/adeane/devinsight/internal/domain"
)

// Colors
var (
	errorColor   = lipgloss.Color("9")   // Red
	warningColor = lipgloss.Color("11")  // Yellow
	infoColor    = lipgloss.Color("10")  // Green
	debugColor   = lipgloss.Color("12")  // Blue
	verboseColor = lipgloss.Color("15")  // White
	unknownColor = lipgloss.Color("8")   // Gray
	accentColor  = lipgloss.Color("14")  // Cyan
	headerBg     = lipgloss.Color("235")
	statusBg     = lipgloss.Color("236")
	dimColor     = lipgloss.Color("8")
)

// Styles
var (
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	infoStyle    = lipgloss.NewStyle().Foreground(infoColor)
	debugStyle   = lipgloss.NewStyle().Foreground(debugColor)
	verboseStyle = lipgloss.NewStyle().Foreground(verboseColor)
	unknownStyle = lipgloss.NewStyle().Foreground(unknownColor)

	tabStyle = lipgloss.NewStyle().
			Background(headerBg).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Background(headerBg).
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Background(headerBg)

	statusStyle = lipgloss.NewStyle().
			Background(statusBg).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	pausedStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	runningStyle = lipgloss.NewStyle().Foreground(infoColor).Bold(true)
	tailStyle    = lipgloss.NewStyle().Foreground(accentColor)
	scrollStyle  = lipgloss.NewStyle().Foreground(warningColor)

	spinnerStyle = lipgloss.NewStyle().Foreground(accentColor)
)

// levelStyle maps a level to its display style; the level set is closed
func levelStyle(l domain.Level) lipgloss.Style {
	switch l {
	case domain.LevelError:
		return errorStyle
	case domain.LevelWarning:
		return warningStyle
	case domain.LevelInfo:
		return infoStyle
	case domain.LevelDebug:
		return debugStyle
	case domain.LevelVerbose:
		return verboseStyle
	default:
		return unknownStyle
	}
}

// levelIcon maps a level to its gutter icon
func levelIcon(l domain.Level) string {
	switch l {
	case domain.LevelError:
		return "✖"
	case domain.LevelWarning:
		return "▲"
	case domain.LevelInfo:
		return "●"
	case domain.LevelDebug:
		return "◆"
	case domain.LevelVerbose:
		return "·"
	default:
		return "?"
	}
}

// connIndicator renders the connection state for the header
func connIndicator(c domain.ConnectionStatus) string {
	switch c {
	case domain.ConnectionConnected:
		return infoStyle.Render("● " + c.String())
	case domain.ConnectionDisconnected:
		return errorStyle.Render("● " + c.String())
	default:
		return warningStyle.Render("▲ " + c.String())
	}
}
