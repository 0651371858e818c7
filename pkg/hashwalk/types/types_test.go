package types

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain bytes", input: "1024", want: 1024},
		{name: "bytes with B suffix", input: "512B", want: 512},
		{name: "kilobytes", input: "64K", want: 64 * KiB},
		{name: "megabytes with B", input: "10MB", want: 10 * MiB},
		{name: "megabytes with iB", input: "10MiB", want: 10 * MiB},
		{name: "lowercase", input: "2g", want: 2 * GiB},
		{name: "decimal truncated", input: "1.5K", want: 1536},
		{name: "surrounding whitespace", input: "  1M ", want: MiB},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-1M", wantErr: true},
		{name: "unknown suffix", input: "5X", wantErr: true},
		{name: "suffix only", input: "M", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0))
	assert.Equal(t, "0 B", FormatSize(-5))
	assert.Equal(t, "1.0 KiB", FormatSize(KiB))
	assert.Equal(t, "1.5 MiB", FormatSize(1536*KiB))
}

func TestRecord_IsErrorMarker(t *testing.T) {
	assert.True(t, Record{Hash: "ERROR_EACCES_1736209554123"}.IsErrorMarker())
	assert.True(t, Record{Hash: "ERROR_UNKNOWN"}.IsErrorMarker())
	assert.False(t, Record{Hash: "d41d8cd98f00b204e9800998ecf8427e"}.IsErrorMarker())
	assert.False(t, Record{Hash: "ERR"}.IsErrorMarker())
	assert.False(t, Record{}.IsErrorMarker())
}

func TestResult_Compared(t *testing.T) {
	r := &Result{CSV: "/tmp/a.csv", Hash: "abc"}
	assert.False(t, r.Compared())
	assert.False(t, r.Matched())

	target := "abc"
	match := true
	r.Compare = &target
	r.IsMatch = &match
	assert.True(t, r.Compared())
	assert.True(t, r.Matched())

	match = false
	assert.False(t, r.Matched())
}

func TestPhase_String(t *testing.T) {
	phases := map[Phase]string{
		PhaseIdle:             "idle",
		PhaseWalking:          "walking",
		PhaseBuildingManifest: "building_manifest",
		PhaseHashingManifest:  "hashing_manifest",
		PhaseComparingTarget:  "comparing_target",
		PhaseDone:             "done",
		PhaseFailed:           "failed",
		Phase(99):             "unknown",
	}
	for p, want := range phases {
		assert.Equal(t, want, p.String())
	}

	assert.True(t, PhaseDone.Terminal())
	assert.True(t, PhaseFailed.Terminal())
	assert.False(t, PhaseWalking.Terminal())
}

func TestError(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}
	err := NewError(KindManifestHash, cause, "hashing manifest %s", "/x")

	assert.Equal(t, "hashing manifest /x: open /x: permission denied", err.Error())
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.ErrorIs(t, err, &Error{Kind: KindManifestHash})
	assert.NotErrorIs(t, err, &Error{Kind: KindInvalidRoot})

	wrapped := fmt.Errorf("run: %w", err)
	assert.Equal(t, KindManifestHash, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))

	verbose := err.Verbose()
	require.Contains(t, verbose, "ManifestHash: hashing manifest /x")
	assert.Contains(t, verbose, "caused by: permission denied")
}

func TestError_NoCause(t *testing.T) {
	err := NewError(KindUnsupportedAlgorithm, nil, "invalid algorithm: %s", "crc32")
	assert.Equal(t, "invalid algorithm: crc32", err.Error())
	assert.NoError(t, err.Unwrap())
	assert.Equal(t, "UnsupportedAlgorithm: invalid algorithm: crc32", err.Verbose())
}
