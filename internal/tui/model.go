// Package tui is the interactive dashboard: a single cooperative loop that
// drains the ingestion and storage-status channels, owns all mutable view
// state, and renders the Logs/Stats/Storage views.
package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
	"github.com/adeane/devinsight/internal/logs"
	"github.com/adeane/devinsight/internal/storage"
)

// View selects the active tab
type View int

const (
	ViewLogs View = iota
	ViewStats
	ViewStorage
)

// String returns the tab title
func (v View) String() string {
	switch v {
	case ViewLogs:
		return "Logs"
	case ViewStats:
		return "Stats"
	default:
		return "Storage"
	}
}

// Options wires the model to its collaborators. Entries is required; the
// rest may be zero when the corresponding feature is off.
type Options struct {
	Entries <-chan domain.LogEntry
	Status  <-chan storage.Status
	// Probe reports the source's liveness; called off the UI loop on a
	// fixed interval.
	Probe func() domain.ConnectionStatus
	// StorageEnabled switches the Storage tab from the hint text to live
	// status once snapshots arrive.
	StorageEnabled bool
}

// Model is the bubbletea model holding the whole application state. It is
// the single mutator of the store and the filtered index; the ingestion
// goroutine only owns the sending half of the channels.
type Model struct {
	opts Options

	store    *logs.Store
	filtered []int
	levels   domain.LevelSet
	stats    domain.LogStats

	view       View
	searchMode bool
	paused     bool
	tail       bool
	scroll     int

	searchInput textinput.Model

	storageStatus *storage.Status
	connStatus    domain.ConnectionStatus
	sourceDone    bool

	statusMsg string
	statusAt  time.Time

	// Warm-up phase: collect a first batch (or give up after enough empty
	// polls) before the first full-screen draw.
	warming    bool
	collected  int
	emptyPolls int
	spin       spinner.Model

	width  int
	height int
	ready  bool

	// Injection points for tests
	copyFn func(string) error
	now    func() time.Time
}

// NewModel creates the initial model
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 128
	ti.Prompt = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		opts:        opts,
		store:       logs.NewStore(constants.StoreCapacity, constants.StoreEvictBatch),
		filtered:    []int{},
		levels:      domain.DefaultLevelSet(),
		searchInput: ti,
		connStatus:  domain.ConnectionConnected,
		warming:     true,
		spin:        sp,
		tail:        true,
		copyFn:      clipboard.WriteAll,
		now:         time.Now,
	}
}

// Init starts the poll tick, the spinner, and the liveness probe
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), m.spin.Tick}
	if m.opts.Probe != nil {
		cmds = append(cmds, probeCmd(m.opts.Probe))
	}
	return tea.Batch(cmds...)
}

// tickMsg drives the drain/redraw loop
type tickMsg time.Time

// probeMsg carries the result of a source liveness probe
type probeMsg domain.ConnectionStatus

// tickCmd schedules the next poll tick. The tick is the system's effective
// redraw interval; channel drains happen on it.
func tickCmd() tea.Cmd {
	return tea.Tick(constants.PollTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// probeCmd runs the liveness probe off the UI loop
func probeCmd(probe func() domain.ConnectionStatus) tea.Cmd {
	return tea.Tick(constants.ConnectionCheckInterval, func(time.Time) tea.Msg {
		return probeMsg(probe())
	})
}

// query returns the active search text. The text survives leaving search
// mode via Enter; Esc clears it.
func (m *Model) query() string {
	return m.searchInput.Value()
}

// recompute rebuilds the filtered index from scratch and, in tail mode,
// pins the scroll position to the newest matching entry.
func (m *Model) recompute() {
	m.filtered = logs.Indexes(m.store.Snapshot(), m.levels, m.query())
	if m.tail {
		m.scroll = maxInt(len(m.filtered)-1, 0)
	} else if m.scroll > len(m.filtered)-1 {
		m.scroll = maxInt(len(m.filtered)-1, 0)
	}
}

// drain absorbs everything queued on both channels without blocking.
// Entries received while paused are consumed and dropped, deliberately:
// there is no paused backlog. Returns whether the store changed.
func (m *Model) drain() bool {
	changed := false

	for m.opts.Entries != nil {
		select {
		case entry, ok := <-m.opts.Entries:
			if !ok {
				// Producer ended; not an error, just no more input.
				m.opts.Entries = nil
				m.sourceDone = true
				break
			}
			if m.paused {
				continue
			}
			m.store.Append(entry)
			m.stats.Record(entry.Level)
			changed = true
			continue
		default:
		}
		break
	}

	for m.opts.Status != nil {
		select {
		case status, ok := <-m.opts.Status:
			if !ok {
				m.opts.Status = nil
				break
			}
			m.storageStatus = &status
			continue
		default:
		}
		break
	}

	return changed
}

// selected returns the entry under the cursor, if any
func (m *Model) selected() (domain.LogEntry, bool) {
	if m.scroll < 0 || m.scroll >= len(m.filtered) {
		return domain.LogEntry{}, false
	}
	return m.store.Get(m.filtered[m.scroll])
}

// setStatus shows a transient status message; it expires after a fixed TTL
func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusAt = m.now()
}

// statusFresh reports whether the transient message should still be shown
func (m *Model) statusFresh() bool {
	return m.statusMsg != "" && m.now().Sub(m.statusAt) < constants.StatusMessageTTL
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
