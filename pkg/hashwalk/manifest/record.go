// Package manifest builds, writes and reads checksum manifests: CSV files
// with one quoted row per file under a scan root.
package manifest

import (
	"iter"
	"path/filepath"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

// Entry is one manifest row before serialization. Digest is the tagged
// tolerant-mode result; it becomes text only when written.
type Entry struct {
	RelativePath string
	FileName     string
	Algorithm    string
	Digest       hasher.Digest
}

// Record renders the entry with marker supplying the hash text of failed
// digests.
func (e Entry) Record(marker Marker) types.Record {
	hash := e.Digest.Hex
	if !e.Digest.OK() {
		hash = marker(e.Digest.Err)
	}
	return types.Record{
		RelativePath: e.RelativePath,
		FileName:     e.FileName,
		Algorithm:    e.Algorithm,
		Hash:         hash,
	}
}

// Records returns a lazy sequence of entries for files, in slice order.
// Each file is hashed in tolerant mode when its entry is pulled, so at most
// one file is open at a time. Ranging over the sequence again rehashes.
func Records(files []string, root string, algo hasher.Algorithm) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, file := range files {
			e := Entry{
				RelativePath: RelativePath(root, file),
				FileName:     filepath.Base(file),
				Algorithm:    algo.Name,
				Digest:       hasher.HashFileTolerant(file, algo),
			}
			if !e.Digest.OK() {
				logger.Warn("hash failed, recording error marker",
					"path", file,
					"code", hasher.ErrorCode(e.Digest.Err),
					"err", e.Digest.Err)
			}
			if !yield(e) {
				return
			}
		}
	}
}

// RelativePath returns file relative to root with forward slashes. A file
// outside root keeps its own path, slash separated.
func RelativePath(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	return filepath.ToSlash(rel)
}
