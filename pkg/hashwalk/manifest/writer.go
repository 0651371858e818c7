package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/logging"
)

var logger = logging.Get("manifest")

// Header is the fixed first row of every manifest.
var Header = [4]string{"RelativePath", "FileName", "Algorithm", "Hash"}

// writeBufferSize bounds the buffered writer; rows are flushed as it fills.
const writeBufferSize = 32 * 1024

// WriteStats summarises a written manifest.
type WriteStats struct {
	// Rows is the number of records, the header excluded.
	Rows int64

	// ErrorRows is the number of records carrying an error marker.
	ErrorRows int64

	// BytesHashed is the file content consumed while hashing.
	BytesHashed int64
}

// Escape quotes a field, doubling embedded double quotes. Every field is
// quoted whether or not it needs to be.
func Escape(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Encode streams the header and one row per entry to w. Entries are pulled
// one at a time and never collected.
func Encode(w io.Writer, entries iter.Seq[Entry], marker Marker) (WriteStats, error) {
	var stats WriteStats
	if marker == nil {
		marker = TimestampMarker(nil)
	}

	bw := bufio.NewWriterSize(w, writeBufferSize)
	if err := writeRow(bw, Header[:]); err != nil {
		return stats, err
	}

	for e := range entries {
		rec := e.Record(marker)
		if err := writeRow(bw, []string{rec.RelativePath, rec.FileName, rec.Algorithm, rec.Hash}); err != nil {
			return stats, err
		}
		stats.Rows++
		stats.BytesHashed += e.Digest.Bytes
		if !e.Digest.OK() {
			stats.ErrorRows++
		}
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush manifest: %w", err)
	}
	return stats, nil
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return fmt.Errorf("write manifest row: %w", err)
			}
		}
		if _, err := w.WriteString(Escape(f)); err != nil {
			return fmt.Errorf("write manifest row: %w", err)
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write manifest row: %w", err)
	}
	return nil
}

// Write creates the manifest at path, which must not exist, and encodes
// entries into it. A partially written file is removed on failure.
func Write(path string, entries iter.Seq[Entry], marker Marker) (stats WriteStats, err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return stats, fmt.Errorf("create manifest: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close manifest: %w", closeErr)
		}
		if err != nil {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				logger.Warn("failed to remove partial manifest", "path", path, "err", rmErr)
			}
		}
	}()

	stats, err = Encode(f, entries, marker)
	if err != nil {
		return stats, err
	}

	logger.Debug("manifest written",
		"path", path,
		"rows", stats.Rows,
		"error_rows", stats.ErrorRows)
	return stats, nil
}
