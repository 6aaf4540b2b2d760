package logs

import (
	"strings"

	"github.com/adeane/devinsight/internal/domain"
)

// Matches reports whether a single entry satisfies the active predicate:
// its level is enabled and, when a search query is set, the query is a
// case-insensitive substring of the message, tag, or level name.
func Matches(entry domain.LogEntry, levels domain.LevelSet, query string) bool {
	if !levels.Contains(entry.Level) {
		return false
	}
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(entry.Message), q) ||
		strings.Contains(strings.ToLower(entry.Tag), q) ||
		strings.Contains(strings.ToLower(entry.Level.String()), q)
}

// Indexes rebuilds the filtered view: a strictly increasing list of store
// positions whose entries match the predicate, oldest first. The rebuild is
// eager and from scratch on every call; indices from a previous call are
// invalid once the store has evicted.
func Indexes(entries []domain.LogEntry, levels domain.LevelSet, query string) []int {
	indexes := make([]int, 0, len(entries))
	for i, entry := range entries {
		if Matches(entry, levels, query) {
			indexes = append(indexes, i)
		}
	}
	return indexes
}
