package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Ext is the manifest file extension.
	Ext = ".csv"

	// stampLayout sorts lexically in time order.
	stampLayout = "20060102T150405"
)

// DefaultDir returns the manifest directory used when none is configured:
// hashwalk under the OS temporary directory.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "hashwalk")
}

// FileName returns <YYYYMMDDTHHMMSS>_<algorithm>_<uuid>.csv for now in UTC.
func FileName(now time.Time, algorithm string) string {
	return fmt.Sprintf("%s_%s_%s%s", now.UTC().Format(stampLayout), algorithm, uuid.NewString(), Ext)
}

// NameParts are the fields embedded in a manifest file name.
type NameParts struct {
	Time      time.Time
	Algorithm string
	Token     string
}

// ParseFileName splits a name produced by FileName. It reports false for
// names that do not follow the pattern.
func ParseFileName(name string) (NameParts, bool) {
	base, ok := strings.CutSuffix(name, Ext)
	if !ok {
		return NameParts{}, false
	}

	stamp, rest, ok := strings.Cut(base, "_")
	if !ok {
		return NameParts{}, false
	}
	// Algorithm names never contain '_'; the token is the last field.
	i := strings.LastIndexByte(rest, '_')
	if i <= 0 {
		return NameParts{}, false
	}

	ts, err := time.Parse(stampLayout, stamp)
	if err != nil {
		return NameParts{}, false
	}
	token := rest[i+1:]
	if _, err := uuid.Parse(token); err != nil {
		return NameParts{}, false
	}
	return NameParts{Time: ts, Algorithm: rest[:i], Token: token}, true
}
