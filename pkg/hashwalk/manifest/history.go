package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned by Find when no manifest matches.
var ErrNotFound = errors.New("manifest not found")

// ErrAmbiguous is returned by Find when a prefix matches several manifests.
var ErrAmbiguous = errors.New("manifest prefix is ambiguous")

// Info describes a manifest file in a directory.
type Info struct {
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"`
	Time      time.Time `json:"time" yaml:"time"`
	Algorithm string    `json:"algorithm" yaml:"algorithm"`
	Size      int64     `json:"size" yaml:"size"`
}

// History lists and prunes the manifests in one directory. Files that do not
// carry a manifest name are ignored.
type History struct {
	dir string
}

// NewHistory returns a History over dir. The directory need not exist.
func NewHistory(dir string) (*History, error) {
	if dir == "" {
		return nil, errors.New("manifest directory cannot be empty")
	}
	return &History{dir: dir}, nil
}

// Dir returns the directory the history reads.
func (h *History) Dir() string {
	return h.dir
}

// List returns manifests newest first by the timestamp in their name. A
// limit of zero or less returns all of them.
func (h *History) List(limit int) ([]Info, error) {
	infos, err := h.scan()
	if err != nil {
		return nil, err
	}

	sort.SliceStable(infos, func(i, j int) bool {
		if !infos[i].Time.Equal(infos[j].Time) {
			return infos[i].Time.After(infos[j].Time)
		}
		return infos[i].Name < infos[j].Name
	})

	if limit > 0 && len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

// Find returns the manifest whose name, or path, starts with prefix.
func (h *History) Find(prefix string) (*Info, error) {
	if prefix == "" {
		return nil, errors.New("manifest name cannot be empty")
	}
	prefix = filepath.Base(prefix)

	infos, err := h.scan()
	if err != nil {
		return nil, err
	}

	var match *Info
	for i := range infos {
		if !strings.HasPrefix(infos[i].Name, prefix) {
			continue
		}
		if infos[i].Name == prefix {
			return &infos[i], nil
		}
		if match != nil {
			return nil, fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
		}
		match = &infos[i]
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	}
	return match, nil
}

// Cleanup removes manifests whose name timestamp is older than
// retentionDays and returns how many were removed. Removal failures are
// logged and skipped.
func (h *History) Cleanup(retentionDays int, now time.Time) (int, error) {
	infos, err := h.scan()
	if err != nil {
		return 0, err
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	removed := 0
	for _, info := range infos {
		if !info.Time.Before(cutoff) {
			continue
		}
		if err := os.Remove(info.Path); err != nil {
			logger.Warn("failed to remove manifest", "path", info.Path, "err", err)
			continue
		}
		removed++
	}
	return removed, nil
}

func (h *History) scan() ([]Info, error) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("read manifest directory: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		parts, ok := ParseFileName(e.Name())
		if !ok {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Name:      e.Name(),
			Path:      filepath.Join(h.dir, e.Name()),
			Time:      parts.Time,
			Algorithm: parts.Algorithm,
			Size:      fi.Size(),
		})
	}
	return infos, nil
}
