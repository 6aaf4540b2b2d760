package domain

// Level is the severity classification of a log record. The set is closed;
// mapping functions switch exhaustively over it.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelDebug
	LevelVerbose
	LevelUnknown
)

// Levels lists all classifications in priority order (highest first).
var Levels = []Level{
	LevelError,
	LevelWarning,
	LevelInfo,
	LevelDebug,
	LevelVerbose,
	LevelUnknown,
}

// String returns the display name of the level
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelVerbose:
		return "VERBOSE"
	default:
		return "UNKNOWN"
	}
}

// Letter returns the single-letter form used in the status bar filter display
func (l Level) Letter() string {
	switch l {
	case LevelError:
		return "E"
	case LevelWarning:
		return "W"
	case LevelInfo:
		return "I"
	case LevelDebug:
		return "D"
	case LevelVerbose:
		return "V"
	default:
		return "?"
	}
}

// LogEntry represents a single parsed log line. Entries are immutable once
// created: the parser builds them and the store owns them until eviction.
type LogEntry struct {
	Level     Level
	Timestamp string // device-local time as printed by the source
	Tag       string
	Message   string
}

// LevelSet is the per-level enable set driving the filtered view.
type LevelSet map[Level]bool

// DefaultLevelSet returns the startup filter: every named level enabled.
// Unknown is not part of the set, so unclassifiable lines stay hidden.
func DefaultLevelSet() LevelSet {
	return LevelSet{
		LevelError:   true,
		LevelWarning: true,
		LevelInfo:    true,
		LevelDebug:   true,
		LevelVerbose: true,
	}
}

// Contains reports whether the level is enabled
func (s LevelSet) Contains(l Level) bool {
	return s[l]
}

// Toggle flips the level. Toggling off the last enabled level is allowed;
// the view simply becomes empty.
func (s LevelSet) Toggle(l Level) {
	s[l] = !s[l]
}

// LogStats counts accepted entries per level. Entries dropped while paused
// are not counted.
type LogStats struct {
	Errors   int
	Warnings int
	Infos    int
	Debugs   int
	Verboses int
}

// Record increments the counter for the given level. Unknown entries are
// accepted but not counted, matching the display which has no unknown row.
func (s *LogStats) Record(l Level) {
	switch l {
	case LevelError:
		s.Errors++
	case LevelWarning:
		s.Warnings++
	case LevelInfo:
		s.Infos++
	case LevelDebug:
		s.Debugs++
	case LevelVerbose:
		s.Verboses++
	case LevelUnknown:
	}
}

// Total returns the sum of all counted entries
func (s LogStats) Total() int {
	return s.Errors + s.Warnings + s.Infos + s.Debugs + s.Verboses
}

// ConnectionStatus describes the last known state of the external log source
type ConnectionStatus int

const (
	ConnectionConnected ConnectionStatus = iota
	ConnectionDisconnected
	ConnectionError
)

// String returns the display name of the connection status
func (c ConnectionStatus) String() string {
	switch c {
	case ConnectionConnected:
		return "Connected"
	case ConnectionDisconnected:
		return "Disconnected"
	default:
		return "Error"
	}
}
