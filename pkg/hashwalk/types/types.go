// Package types provides core data types for hashwalk.
// It includes the checksum record produced for every file, the result
// object returned to callers, run statistics and phase reporting, and the
// structured error used for fatal conditions.
package types

import (
	"strings"
	"time"
)

// ErrorMarkerPrefix starts every placeholder hash written for a file that
// could not be read. Consumers must treat such values as opaque text.
const ErrorMarkerPrefix = "ERROR_"

// Record is one manifest row.
type Record struct {
	// RelativePath is the path relative to the scan root, always using '/'.
	RelativePath string `json:"relative_path" yaml:"relative_path"`

	// FileName is the base name of the file.
	FileName string `json:"file_name" yaml:"file_name"`

	// Algorithm is the canonical algorithm identifier used for Hash.
	Algorithm string `json:"algorithm" yaml:"algorithm"`

	// Hash is the lowercase hex digest, or an error marker.
	Hash string `json:"hash" yaml:"hash"`
}

// IsErrorMarker reports whether the record carries a placeholder instead of
// a digest.
func (r Record) IsErrorMarker() bool {
	return strings.HasPrefix(r.Hash, ErrorMarkerPrefix)
}

// Result is the outcome of one run handed back to the caller.
// Compare and IsMatch are only set when a comparison target was supplied.
type Result struct {
	// CSV is the absolute path of the written manifest.
	CSV string `json:"csv" yaml:"csv"`

	// Hash is the hex digest of the manifest file itself.
	Hash string `json:"hash" yaml:"hash"`

	// Compare is the comparison target exactly as supplied.
	Compare *string `json:"compare,omitempty" yaml:"compare,omitempty"`

	// IsMatch reports whether Compare matched Hash.
	IsMatch *bool `json:"isMatch,omitempty" yaml:"isMatch,omitempty"`
}

// Compared reports whether a comparison was attempted.
func (r *Result) Compared() bool {
	return r.Compare != nil && r.IsMatch != nil
}

// Matched reports whether a comparison was attempted and matched.
func (r *Result) Matched() bool {
	return r.Compared() && *r.IsMatch
}

// Stats summarises a run. It is reported alongside a Result but is not part
// of the Result contract.
type Stats struct {
	// Files is the number of files written to the manifest.
	Files int64 `json:"files" yaml:"files"`

	// ErrorRows is the number of rows carrying an error marker.
	ErrorRows int64 `json:"error_rows" yaml:"error_rows"`

	// BytesHashed is the number of content bytes fed to the digest.
	BytesHashed int64 `json:"bytes_hashed" yaml:"bytes_hashed"`

	// Elapsed is the wall time of the run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Phase is a state in the per-run state machine.
type Phase int

// Phases in the order a successful run visits them.
const (
	PhaseIdle Phase = iota
	PhaseWalking
	PhaseBuildingManifest
	PhaseHashingManifest
	PhaseComparingTarget
	PhaseDone
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWalking:
		return "walking"
	case PhaseBuildingManifest:
		return "building_manifest"
	case PhaseHashingManifest:
		return "hashing_manifest"
	case PhaseComparingTarget:
		return "comparing_target"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions follow p.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// Progress reports run progress to an optional observer.
type Progress struct {
	// Phase is the current state.
	Phase Phase `json:"phase"`

	// FilesFound is the number of files discovered by the walk.
	FilesFound int64 `json:"files_found"`

	// FilesHashed is the number of manifest rows written so far.
	FilesHashed int64 `json:"files_hashed"`

	// ErrorRows is the number of error markers written so far.
	ErrorRows int64 `json:"error_rows"`

	// CurrentPath is the file currently being hashed.
	CurrentPath string `json:"current_path"`
}
