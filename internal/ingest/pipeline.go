package ingest

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
)

// Sink receives every accepted entry for persistence. Store errors are
// counted and otherwise swallowed: the live view must not depend on disk.
type Sink interface {
	Store(domain.LogEntry) error
}

// Config holds configuration for a Pipeline
type Config struct {
	// LevelFilter drops lines not containing "<LEVEL>/" before parsing
	// (coarse source-side filter, e.g. "E").
	LevelFilter string
	// TagFilter drops lines not containing the tag substring.
	TagFilter string
	// ChannelBuffer overrides the entry channel buffer (for tests).
	ChannelBuffer int
}

// Pipeline reads newline-delimited raw lines, parses them, and forwards the
// entries. It owns the sending half of the entry channel; the channel is
// closed when the stream ends, which the receiver treats as the source
// having stopped rather than as an error.
type Pipeline struct {
	cfg     Config
	sink    Sink
	entries chan domain.LogEntry

	lines       atomic.Int64
	skipped     atomic.Int64
	storeErrors atomic.Int64
	byLevel     [int(domain.LevelUnknown) + 1]atomic.Int64
}

// NewPipeline creates a pipeline. sink may be nil when storage is disabled.
func NewPipeline(cfg Config, sink Sink) *Pipeline {
	buffer := cfg.ChannelBuffer
	if buffer <= 0 {
		buffer = constants.EntryChannelBuffer
	}
	return &Pipeline{
		cfg:     cfg,
		sink:    sink,
		entries: make(chan domain.LogEntry, buffer),
	}
}

// Entries returns the receiving half of the entry channel
func (p *Pipeline) Entries() <-chan domain.LogEntry {
	return p.entries
}

// Run consumes the stream until EOF, a read error, or context cancellation,
// then closes the entry channel. A malformed (non-UTF-8) line is skipped;
// nothing here ever terminates the process.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) {
	defer close(p.entries)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, constants.ScannerBufferSize), constants.ScannerMaxBufferSize)

	for scanner.Scan() {
		line := scanner.Text()
		p.lines.Add(1)

		if !utf8.ValidString(line) {
			p.skipped.Add(1)
			continue
		}
		if p.cfg.LevelFilter != "" && !strings.Contains(line, p.cfg.LevelFilter+"/") {
			continue
		}
		if p.cfg.TagFilter != "" && !strings.Contains(line, p.cfg.TagFilter) {
			continue
		}

		entry := Parse(line)
		p.byLevel[entry.Level].Add(1)

		if p.sink != nil {
			if err := p.sink.Store(entry); err != nil {
				p.storeErrors.Add(1)
			}
		}

		select {
		case p.entries <- entry:
		case <-ctx.Done():
			return
		}
	}
	// Scanner errors mean the stream is gone; the closed channel is the
	// signal, the liveness probe reports the details.
}

// Counters returns the per-level counts of parsed entries
func (p *Pipeline) Counters() domain.LogStats {
	return domain.LogStats{
		Errors:   int(p.byLevel[domain.LevelError].Load()),
		Warnings: int(p.byLevel[domain.LevelWarning].Load()),
		Infos:    int(p.byLevel[domain.LevelInfo].Load()),
		Debugs:   int(p.byLevel[domain.LevelDebug].Load()),
		Verboses: int(p.byLevel[domain.LevelVerbose].Load()),
	}
}

// Lines returns the total number of raw lines read
func (p *Pipeline) Lines() int64 {
	return p.lines.Load()
}

// Skipped returns the number of undecodable lines dropped
func (p *Pipeline) Skipped() int64 {
	return p.skipped.Load()
}

// StoreErrors returns the number of entries that failed to persist
func (p *Pipeline) StoreErrors() int64 {
	return p.storeErrors.Load()
}
