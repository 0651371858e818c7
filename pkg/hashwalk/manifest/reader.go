package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

// ErrBadHeader is returned when a file does not start with Header.
var ErrBadHeader = errors.New("not a manifest: unexpected header")

// Read parses the manifest at path.
func Read(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses manifest rows from r.
func Decode(r io.Reader) ([]types.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrBadHeader
		}
		return nil, fmt.Errorf("read manifest header: %w", err)
	}
	for i, want := range Header {
		if header[i] != want {
			return nil, fmt.Errorf("%w: column %d is %q", ErrBadHeader, i+1, header[i])
		}
	}

	records := make([]types.Record, 0)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		records = append(records, types.Record{
			RelativePath: row[0],
			FileName:     row[1],
			Algorithm:    row[2],
			Hash:         row[3],
		})
	}
}
