package integration

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeane/devinsight/internal/domain"
	"github.com/adeane/devinsight/internal/ingest"
	"github.com/adeane/devinsight/internal/logs"
	"github.com/adeane/devinsight/internal/storage"
)

const capture = `03-21 10:23:45.678  1234  5678 E CrashHandler: Something broke
03-21 10:23:45.700  1234  5678 W NetworkManager: connection to 10.0.0.1:8080 lost
03-21 10:23:45.800  1234  5678 I ActivityTaskManager: resumed MainActivity
03-21 10:23:45.900  1234  5678 D AudioFlinger: buffer underrun
03-21 10:23:46.000  1234  5678 V Chatty: uid=1000 expire 3 lines
`

// Source to disk and back: stream in, persist through the rotator, then
// query the files the way the CLI and the API do.
func TestStream_Persist_Query(t *testing.T) {
	dir := t.TempDir()
	rotator, err := storage.New(storage.Config{Dir: dir, MaxSizeMB: 1})
	require.NoError(t, err)
	defer rotator.Close()

	p := ingest.NewPipeline(ingest.Config{ChannelBuffer: 16}, rotator)
	go p.Run(context.Background(), strings.NewReader(capture))

	var entries []domain.LogEntry
	for e := range p.Entries() {
		entries = append(entries, e)
	}
	require.Len(t, entries, 5)

	stats := p.Counters()
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Warnings)
	assert.Equal(t, 5, stats.Total())

	records, err := storage.Query(dir, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "ERROR", records[0].Level)
	assert.Equal(t, "Something broke", records[0].Message)
	assert.Equal(t, "uid=1000 expire 3 lines", records[4].Message)
}

// The in-memory store and the filtered view track a stream that overflows
// the capacity.
func TestStream_BoundedStore_FilteredView(t *testing.T) {
	p := ingest.NewPipeline(ingest.Config{ChannelBuffer: 256}, nil)

	var b strings.Builder
	for i := 0; i < 200; i++ {
		if i%10 == 0 {
			b.WriteString("E/CrashHandler( 1): boom\n")
		} else {
			b.WriteString("I/Chatty( 1): noise\n")
		}
	}
	go p.Run(context.Background(), strings.NewReader(b.String()))

	store := logs.NewStore(100, 10)
	for e := range p.Entries() {
		store.Append(e)
	}

	// 200 entries through a store of 100 leaves at most 100
	assert.LessOrEqual(t, store.Len(), 100)
	assert.Greater(t, store.Len(), 90)

	levels := domain.LevelSet{domain.LevelError: true}
	idx := logs.Indexes(store.Snapshot(), levels, "")
	for _, i := range idx {
		e, ok := store.Get(i)
		require.True(t, ok)
		assert.Equal(t, domain.LevelError, e.Level)
		assert.Equal(t, "boom", e.Message)
	}
	assert.NotEmpty(t, idx)
}

// A coarse source-side level filter cuts the stream before it reaches
// storage.
func TestStream_PreFilter_Persist(t *testing.T) {
	dir := t.TempDir()
	rotator, err := storage.New(storage.Config{Dir: dir, MaxSizeMB: 1})
	require.NoError(t, err)
	defer rotator.Close()

	input := "E/Crash( 1): fatal\nI/Chatty( 1): noise\nE/Crash( 1): fatal too\n"
	p := ingest.NewPipeline(ingest.Config{LevelFilter: "E", ChannelBuffer: 16}, rotator)
	go p.Run(context.Background(), strings.NewReader(input))

	count := 0
	for range p.Entries() {
		count++
	}
	require.Equal(t, 2, count)

	records, err := storage.Query(dir, time.Time{}, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "ERROR", rec.Level)
	}
}
