// Package storage persists accepted log entries to append-only JSONL files
// with size-based rotation. Old files are never deleted; unbounded on-disk
// growth is accepted.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
)

// Record is the persisted form of a log entry, one JSON object per line.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Tag       string    `json:"tag"`
	Message   string    `json:"message"`
	DeviceID  *string   `json:"device_id"`
}

// Status is an aggregate snapshot of the storage directory, emitted after
// every store and rotation.
type Status struct {
	CurrentFile string `json:"current_file"`
	TotalSize   int64  `json:"total_size"`
	FileCount   int    `json:"file_count"`
}

// Config holds configuration for a Rotator
type Config struct {
	Dir       string
	MaxSizeMB int
	DeviceID  string // optional device identifier stamped into records
	Compress  bool   // compress files as rotation closes them
}

// Rotator appends serialized records to the current file and rotates to a
// new timestamp-named file once the size threshold is crossed.
type Rotator struct {
	mu       sync.Mutex
	dir      string
	maxBytes int64
	compress bool
	deviceID *string

	file    *os.File
	path    string
	written int64

	status chan Status
	clock  func() time.Time
}

// New creates the storage directory if needed and opens the first file
func New(cfg Config) (*Rotator, error) {
	if cfg.Dir == "" {
		cfg.Dir = constants.DefaultStorageDir
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = constants.DefaultMaxFileSizeMB
	}

	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	r := &Rotator{
		dir:      cfg.Dir,
		maxBytes: int64(cfg.MaxSizeMB) << 20,
		compress: cfg.Compress,
		status:   make(chan Status, constants.StatusChannelBuffer),
		clock:    time.Now,
	}
	if cfg.DeviceID != "" {
		id := cfg.DeviceID
		r.deviceID = &id
	}

	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

// Updates returns the status snapshot channel. Delivery is best-effort:
// snapshots are dropped when the receiver is not keeping up or gone.
func (r *Rotator) Updates() <-chan Status {
	return r.status
}

// Store appends one entry to the current file, rotating afterwards if the
// size threshold has been crossed. Filesystem errors are returned to the
// caller; the entry is simply not persisted in that case.
func (r *Rotator) Store(entry domain.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := Record{
		Timestamp: r.clock(),
		Level:     entry.Level.String(),
		Tag:       entry.Tag,
		Message:   entry.Message,
		DeviceID:  r.deviceID,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("serializing record: %w", err)
	}

	if _, err := r.file.Write(data); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	if _, err := r.file.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}

	// The counter tracks serialized record bytes; the newline is noise
	// against a megabyte-scale threshold.
	r.written += int64(len(data))
	if r.written >= r.maxBytes {
		if err := r.rotate(); err != nil {
			return err
		}
	}

	r.emitStatus()
	return nil
}

// rotate closes the current file and opens a fresh one, resetting the
// counter. Must be called with the mutex held.
func (r *Rotator) rotate() error {
	closed := r.path
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", closed, err)
	}
	if err := r.open(); err != nil {
		return err
	}
	if r.compress {
		// Best-effort: a failed compression leaves the plain file behind,
		// which the query path reads just as well.
		compressFile(closed)
	}
	return nil
}

// open opens a new timestamp-named file in append mode. Must be called with
// the mutex held (or before the rotator is shared).
func (r *Rotator) open() error {
	name := constants.LogFilePrefix + r.clock().Format("20060102_150405") + constants.LogFileExt
	path := filepath.Join(r.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", path, err)
	}
	r.file = f
	r.path = path
	r.written = 0
	return nil
}

// emitStatus computes and publishes a snapshot. Must be called with the
// mutex held.
func (r *Rotator) emitStatus() {
	snap, err := scanDir(r.dir)
	if err != nil {
		return
	}
	snap.CurrentFile = r.path

	select {
	case r.status <- snap:
	default:
	}
}

// Status computes a snapshot of the storage directory on demand
func (r *Rotator) Status() (Status, error) {
	r.mu.Lock()
	path := r.path
	r.mu.Unlock()

	snap, err := scanDir(r.dir)
	if err != nil {
		return Status{}, err
	}
	snap.CurrentFile = path
	return snap, nil
}

// Close closes the current file
func (r *Rotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}

// scanDir totals the size and count of log files in dir
func scanDir(dir string) (Status, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Status{}, fmt.Errorf("scanning storage directory: %w", err)
	}

	var snap Status
	for _, e := range entries {
		if e.IsDir() || !isLogFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		snap.TotalSize += info.Size()
		snap.FileCount++
	}
	return snap, nil
}

// isLogFile reports whether name looks like one of our files, plain or
// compressed
func isLogFile(name string) bool {
	if !strings.HasPrefix(name, constants.LogFilePrefix) {
		return false
	}
	return strings.HasSuffix(name, constants.LogFileExt) ||
		strings.HasSuffix(name, constants.LogFileExt+constants.CompressedExt)
}

// Clear removes all existing log files from dir. Used with the
// clear-before-start option; a missing directory is not an error.
func Clear(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("scanning storage directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !isLogFile(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("removing %s: %w", e.Name(), err)
		}
	}
	return nil
}

// compressFile rewrites path as path.zst and removes the original.
// Best-effort: on any error the original file is left untouched.
func compressFile(path string) {
	src, err := os.Open(path)
	if err != nil {
		return
	}
	defer src.Close()

	dst, err := os.OpenFile(path+constants.CompressedExt, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return
	}

	zw, err := zstd.NewWriter(dst)
	if err != nil {
		dst.Close()
		os.Remove(path + constants.CompressedExt)
		return
	}

	_, copyErr := io.Copy(zw, src)
	closeErr := zw.Close()
	dst.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(path + constants.CompressedExt)
		return
	}
	os.Remove(path)
}
