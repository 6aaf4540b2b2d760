package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"

	"github.com/adeane/devinsight/internal/constants"
	"github.com/adeane/devinsight/internal/domain"
)

// Query scans every log file in dir and returns the records whose stored
// timestamp falls within [from, to]. Malformed lines are skipped silently;
// a directory or file error aborts the whole query.
func Query(dir string, from, to time.Time) ([]Record, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end %s before start %s", domain.ErrInvalidTimeRange,
			to.Format(time.RFC3339), from.Format(time.RFC3339))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning storage directory: %w", err)
	}

	var records []Record
	for _, e := range entries {
		if e.IsDir() || !isLogFile(e.Name()) {
			continue
		}
		recs, err := scanFile(filepath.Join(dir, e.Name()), from, to)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// scanFile reads one file line by line, transparently decompressing .zst
func scanFile(path string, from, to time.Time) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, constants.CompressedExt) {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
		defer zr.Close()
		reader = zr
	}

	var (
		records []Record
		parser  fastjson.Parser
	)

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, constants.ScannerBufferSize), constants.ScannerMaxBufferSize)
	for scanner.Scan() {
		rec, ok := parseRecord(&parser, scanner.Bytes())
		if !ok {
			continue
		}
		if rec.Timestamp.Before(from) || rec.Timestamp.After(to) {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// parseRecord decodes a single JSONL record. Returns ok=false for anything
// that does not look like one of ours.
func parseRecord(parser *fastjson.Parser, line []byte) (Record, bool) {
	v, err := parser.ParseBytes(line)
	if err != nil {
		return Record{}, false
	}

	ts, err := time.Parse(time.RFC3339Nano, string(v.GetStringBytes("timestamp")))
	if err != nil {
		return Record{}, false
	}

	rec := Record{
		Timestamp: ts,
		Level:     string(v.GetStringBytes("level")),
		Tag:       string(v.GetStringBytes("tag")),
		Message:   string(v.GetStringBytes("message")),
	}
	if dv := v.Get("device_id"); dv != nil && dv.Type() == fastjson.TypeString {
		id := string(dv.GetStringBytes())
		rec.DeviceID = &id
	}
	return rec, true
}
