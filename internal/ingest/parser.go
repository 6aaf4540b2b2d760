// Package ingest reads raw lines from the external log source, parses them
// into structured entries, and fans them out to the UI and to storage.
package ingest

import (
	"strings"
	"time"

	"github.com/adeane/devinsight/internal/domain"
)

// fallbackTag is used when the header carries too few tokens to name one
const fallbackTag = "UNKNOWN"

// levelMarkers maps each level to the substrings that classify it, in
// priority order Error > Warning > Info > Debug > Verbose. The letter
// markers are matched case-sensitively, the word markers case-insensitively.
//
// Known limitation, kept for compatibility with existing captures: markers
// match anywhere in the raw line, so a message containing the literal
// text " E " classifies the whole line as Error.
var levelMarkers = []struct {
	level   domain.Level
	letters []string
	word    string
}{
	{domain.LevelError, []string{" E ", "E/"}, "error"},
	{domain.LevelWarning, []string{" W ", "W/"}, "warning"},
	{domain.LevelInfo, []string{" I ", "I/"}, "info"},
	{domain.LevelDebug, []string{" D ", "D/"}, "debug"},
	{domain.LevelVerbose, []string{" V ", "V/"}, "verbose"},
}

// ClassifyLevel derives the severity of a raw line; first match wins
func ClassifyLevel(line string) domain.Level {
	lower := strings.ToLower(line)
	for _, m := range levelMarkers {
		for _, letter := range m.letters {
			if strings.Contains(line, letter) {
				return m.level
			}
		}
		if strings.Contains(lower, m.word) {
			return m.level
		}
	}
	return domain.LevelUnknown
}

// Parse turns one raw line into a LogEntry. The line is split on the first
// ": " into header and message; splitting on a bare colon would cut inside
// the header's clock field. The header's first two whitespace tokens form
// the timestamp (falling back to the current local time), and its
// second-to-last token is the tag.
func Parse(line string) domain.LogEntry {
	header := line
	message := ""
	if idx := strings.Index(line, ": "); idx >= 0 {
		header = line[:idx]
		message = line[idx+2:]
	} else if idx := strings.IndexByte(line, ':'); idx >= 0 {
		header = line[:idx]
		message = line[idx+1:]
	}

	fields := strings.Fields(header)

	timestamp := time.Now().Format("01-02 15:04:05")
	tag := fallbackTag
	if len(fields) >= 2 {
		timestamp = fields[0] + " " + fields[1]
		tag = fields[len(fields)-2]
	}

	return domain.LogEntry{
		Level:     ClassifyLevel(line),
		Timestamp: timestamp,
		Tag:       tag,
		Message:   message,
	}
}
