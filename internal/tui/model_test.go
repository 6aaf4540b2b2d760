package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeane/devinsight/internal/domain"
	"github.com/adeane/devinsight/internal/storage"
)

func testEntry(level domain.Level, msg string) domain.LogEntry {
	return domain.LogEntry{
		Level:     level,
		Timestamp: "03-21 10:23:45.678",
		Tag:       "MyTag",
		Message:   msg,
	}
}

// newTestModel creates a warmed-up model fed from a buffered channel
func newTestModel(buffer int) (Model, chan domain.LogEntry) {
	ch := make(chan domain.LogEntry, buffer)
	m := NewModel(Options{Entries: ch})
	m.warming = false
	m.width = 120
	m.height = 40
	m.ready = true
	return m, ch
}

// tick sends one poll tick through Update
func tick(m Model) Model {
	next, _ := m.Update(tickMsg(time.Now()))
	return next.(Model)
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(Options{})

	assert.Equal(t, ViewLogs, m.view)
	assert.True(t, m.tail)
	assert.True(t, m.warming)
	assert.False(t, m.paused)
	assert.False(t, m.searchMode)
	assert.Equal(t, 0, m.store.Len())
	// All named levels start enabled
	for _, l := range []domain.Level{domain.LevelError, domain.LevelWarning, domain.LevelInfo, domain.LevelDebug, domain.LevelVerbose} {
		assert.True(t, m.levels.Contains(l))
	}
	assert.False(t, m.levels.Contains(domain.LevelUnknown))
}

func TestModel_Tick_DrainsEntries(t *testing.T) {
	m, ch := newTestModel(8)
	ch <- testEntry(domain.LevelInfo, "one")
	ch <- testEntry(domain.LevelError, "two")

	m = tick(m)

	assert.Equal(t, 2, m.store.Len())
	assert.Len(t, m.filtered, 2)
	assert.Equal(t, 1, m.stats.Infos)
	assert.Equal(t, 1, m.stats.Errors)
}

func TestModel_TailPinsToNewest(t *testing.T) {
	m, ch := newTestModel(8)
	for i := 0; i < 5; i++ {
		ch <- testEntry(domain.LevelInfo, "entry")
	}

	m = tick(m)

	assert.True(t, m.tail)
	assert.Equal(t, 4, m.scroll)

	ch <- testEntry(domain.LevelInfo, "newer")
	m = tick(m)
	assert.Equal(t, 5, m.scroll)
}

func TestModel_ScrollUpDisarmsTail(t *testing.T) {
	m, ch := newTestModel(8)
	for i := 0; i < 5; i++ {
		ch <- testEntry(domain.LevelInfo, "entry")
	}
	m = tick(m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)

	assert.False(t, m.tail)
	assert.Equal(t, 3, m.scroll)

	// New entries no longer move the cursor
	ch <- testEntry(domain.LevelInfo, "newer")
	m = tick(m)
	assert.Equal(t, 3, m.scroll)
}

func TestModel_ScrollToEndRearmsTail(t *testing.T) {
	m, ch := newTestModel(8)
	for i := 0; i < 5; i++ {
		ch <- testEntry(domain.LevelInfo, "entry")
	}
	m = tick(m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	require.False(t, m.tail)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)

	assert.True(t, m.tail)
	assert.Equal(t, 4, m.scroll)
}

func TestModel_PauseDropsEntries(t *testing.T) {
	m, ch := newTestModel(8)
	ch <- testEntry(domain.LevelInfo, "before")
	m = tick(m)
	require.Equal(t, 1, m.store.Len())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	require.True(t, m.paused)

	// Entries arriving while paused are consumed and dropped
	ch <- testEntry(domain.LevelInfo, "during")
	ch <- testEntry(domain.LevelInfo, "during")
	m = tick(m)
	assert.Equal(t, 1, m.store.Len())
	assert.Equal(t, 1, m.stats.Infos)

	// Resuming shows only entries from now on
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	require.False(t, m.paused)

	ch <- testEntry(domain.LevelInfo, "after")
	m = tick(m)
	assert.Equal(t, 2, m.store.Len())
	e, _ := m.store.Get(1)
	assert.Equal(t, "after", e.Message)
}

func TestModel_SourceEnd(t *testing.T) {
	m, ch := newTestModel(8)
	ch <- testEntry(domain.LevelInfo, "last")
	close(ch)

	m = tick(m)

	assert.True(t, m.sourceDone)
	assert.Equal(t, 1, m.store.Len())

	// Further ticks are harmless
	m = tick(m)
	assert.Equal(t, 1, m.store.Len())
}

func TestModel_LevelToggle(t *testing.T) {
	m, ch := newTestModel(8)
	ch <- testEntry(domain.LevelInfo, "info line")
	ch <- testEntry(domain.LevelError, "error line")
	m = tick(m)
	require.Len(t, m.filtered, 2)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	m = next.(Model)
	assert.Len(t, m.filtered, 1)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	m = next.(Model)
	assert.Len(t, m.filtered, 2)
}

func TestModel_AllLevelsOff_EmptyView(t *testing.T) {
	m, ch := newTestModel(8)
	ch <- testEntry(domain.LevelInfo, "line")
	m = tick(m)

	for _, r := range "ewidv" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}

	assert.Empty(t, m.filtered)
	// The store itself keeps accepting
	ch <- testEntry(domain.LevelError, "still stored")
	m = tick(m)
	assert.Equal(t, 2, m.store.Len())
	assert.Empty(t, m.filtered)
}

func TestModel_ViewSwitching(t *testing.T) {
	m, _ := newTestModel(0)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	m = next.(Model)
	assert.Equal(t, ViewStats, m.view)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	m = next.(Model)
	assert.Equal(t, ViewStorage, m.view)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	m = next.(Model)
	assert.Equal(t, ViewLogs, m.view)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(0)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_StatusSnapshotConsumed(t *testing.T) {
	ch := make(chan domain.LogEntry, 1)
	status := make(chan storage.Status, 1)
	m := NewModel(Options{Entries: ch, Status: status, StorageEnabled: true})
	m.warming = false

	status <- storage.Status{CurrentFile: "logcat_x.jsonl", TotalSize: 100, FileCount: 1}
	m = tick(m)

	require.NotNil(t, m.storageStatus)
	assert.Equal(t, "logcat_x.jsonl", m.storageStatus.CurrentFile)
	assert.EqualValues(t, 100, m.storageStatus.TotalSize)
}

func TestModel_ProbeUpdatesConnection(t *testing.T) {
	m := NewModel(Options{Probe: func() domain.ConnectionStatus {
		return domain.ConnectionDisconnected
	}})

	next, cmd := m.Update(probeMsg(domain.ConnectionDisconnected))
	m = next.(Model)

	assert.Equal(t, domain.ConnectionDisconnected, m.connStatus)
	// The probe re-arms itself
	assert.NotNil(t, cmd)
}

func TestModel_CopySelected(t *testing.T) {
	m, ch := newTestModel(8)
	var copied string
	m.copyFn = func(s string) error {
		copied = s
		return nil
	}

	ch <- testEntry(domain.LevelError, "Something broke")
	m = tick(m)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = next.(Model)

	assert.Equal(t, "03-21 10:23:45.678 [MyTag] ERROR: Something broke", copied)
	assert.Equal(t, "Log copied to clipboard", m.statusMsg)
}

func TestModel_CopyNothingSelected(t *testing.T) {
	m, _ := newTestModel(0)
	m.copyFn = func(string) error {
		t.Fatal("copy should not run with an empty view")
		return nil
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = next.(Model)
	assert.Empty(t, m.statusMsg)
}

func TestModel_StatusMessageExpires(t *testing.T) {
	m, _ := newTestModel(0)
	base := time.Date(2026, 3, 21, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	m.setStatus("hello")
	assert.True(t, m.statusFresh())

	m.now = func() time.Time { return base.Add(3 * time.Second) }
	assert.False(t, m.statusFresh())
}
