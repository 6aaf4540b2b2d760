// Package constants provides shared configuration values used across the
// devinsight application.
package constants

import "time"

// Configuration file defaults
const (
	// DefaultConfigFile is the default configuration filename
	DefaultConfigFile = "devinsight.yaml"

	// DefaultAPIHost is the default host for the inspection API server
	DefaultAPIHost = "127.0.0.1"

	// DefaultAPIPort is the default port for the inspection API server
	DefaultAPIPort = 5510
)

// In-memory log store sizing
const (
	// StoreCapacity is the hard cap on entries held in memory
	StoreCapacity = 10000

	// StoreEvictBatch is how many of the oldest entries are dropped in one
	// eviction pass once the store is full
	StoreEvictBatch = 1000
)

// Ingestion
const (
	// EntryChannelBuffer is the buffer of the pipeline -> UI channel. The
	// producer blocks rather than drops when it fills, so nothing is lost.
	EntryChannelBuffer = 4096

	// StatusChannelBuffer is the buffer of the storage status channel.
	// Status snapshots are best-effort and may be dropped when full.
	StatusChannelBuffer = 16

	// ScannerBufferSize is the initial buffer size for log line scanning
	ScannerBufferSize = 64 * 1024 // 64KB

	// ScannerMaxBufferSize is the maximum buffer size for log line scanning
	ScannerMaxBufferSize = 1024 * 1024 // 1MB
)

// UI loop timing
const (
	// PollTick is the terminal input poll timeout and effective redraw tick
	PollTick = 50 * time.Millisecond

	// ConnectionCheckInterval is how often the source liveness probe runs
	ConnectionCheckInterval = 5 * time.Second

	// StatusMessageTTL is how long a transient status message stays visible
	StatusMessageTTL = 2 * time.Second

	// WarmupBatchSize is how many entries the warm-up phase tries to collect
	// before the first full-screen draw
	WarmupBatchSize = 50

	// WarmupMaxEmptyPolls bounds the warm-up phase on a quiet stream
	// (about one second at the poll tick)
	WarmupMaxEmptyPolls = 20
)

// Storage defaults
const (
	// DefaultStorageDir is the default directory for persisted logs
	DefaultStorageDir = "devinsight-logs"

	// DefaultMaxFileSizeMB is the rotation threshold for a single log file
	DefaultMaxFileSizeMB = 10

	// LogFilePrefix is the prefix of persisted log file names
	LogFilePrefix = "logcat_"

	// LogFileExt is the extension of persisted log files
	LogFileExt = ".jsonl"

	// CompressedExt is appended to rotated files when compression is enabled
	CompressedExt = ".zst"
)
