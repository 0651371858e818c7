// Package verify computes a manifest's own digest and compares it against a
// reference: either another file, hashed the same way, or a literal digest.
package verify

import (
	"os"
	"path/filepath"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/logging"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

var logger = logging.Get("verify")

// IsFile reports whether path, following links, is a regular file. Stat
// failures report false.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		logger.Debug("stat failed", "path", path, "err", err)
		return false
	}
	return info.Mode().IsRegular()
}

// IsDirectory reports whether path, following links, is a directory. Stat
// failures report false.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		logger.Debug("stat failed", "path", path, "err", err)
		return false
	}
	return info.IsDir()
}

// ManifestDigest hashes a written manifest in strict mode. Error marker rows
// are ordinary text to the digest.
func ManifestDigest(path string, algo hasher.Algorithm) (string, error) {
	sum, err := hasher.HashFile(path, algo)
	if err != nil {
		return "", types.NewError(types.KindManifestHash, err, "hash manifest")
	}
	return sum, nil
}

// Comparison is the outcome of comparing a manifest digest with a target.
type Comparison struct {
	// Target is the reference exactly as supplied.
	Target string

	// TargetPath is the resolved file when the target named one.
	TargetPath string

	// TargetDigest is the digest compared against: the file's digest, or
	// the target string itself.
	TargetDigest string

	// IsMatch reports exact, case-sensitive equality.
	IsMatch bool
}

// ByFile reports whether the target was hashed as a file.
func (c Comparison) ByFile() bool {
	return c.TargetPath != ""
}

// Compare checks digest against target. When target, resolved against the
// working directory, names an existing regular file, that file is hashed in
// strict mode with algo; otherwise target is compared as a literal string.
func Compare(digest, target string, algo hasher.Algorithm) (Comparison, error) {
	c := Comparison{Target: target}

	if path, ok := resolve(target); ok && IsFile(path) {
		sum, err := hasher.HashFile(path, algo)
		if err != nil {
			return c, types.NewError(types.KindComparisonTargetHash, err, "hash comparison target")
		}
		c.TargetPath = path
		c.TargetDigest = sum
	} else {
		c.TargetDigest = target
	}

	c.IsMatch = digest == c.TargetDigest
	logger.Debug("compared manifest digest",
		"target", target,
		"by_file", c.ByFile(),
		"match", c.IsMatch)
	return c, nil
}

// resolve makes target absolute. An empty target resolves to nothing.
func resolve(target string) (string, bool) {
	if target == "" {
		return "", false
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", false
	}
	return abs, true
}
