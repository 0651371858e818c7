package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charlievieth/fastwalk"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/logging"
)

// ErrNotDirectory is returned when the root exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

var logger = logging.Get("walker")

// visitedSet holds the real paths accepted during one walk.
type visitedSet map[string]struct{}

// add records key and reports whether it was new.
func (v visitedSet) add(key string) bool {
	if _, ok := v[key]; ok {
		return false
	}
	v[key] = struct{}{}
	return true
}

// Stats counts what a walk saw.
type Stats struct {
	// Dirs is the number of directories descended into, the root included.
	Dirs int64

	// Files is the number of paths emitted.
	Files int64

	// Duplicates is the number of directories and files skipped because
	// their real path had already been visited.
	Duplicates int64

	// Skipped is the number of entries dropped on resolution failure.
	Skipped int64
}

// dirRef is a worklist entry: the real directory to read and the path under
// which its entries are reported.
type dirRef struct {
	real    string
	display string
}

// Walker enumerates the files under one root. A Walker is single use and
// not safe for concurrent use.
type Walker struct {
	opts    Options
	root    string
	visited visitedSet
	pending []dirRef
	files   []string
	stats   Stats
}

// New creates a Walker with the given options.
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Walk enumerates root with a fresh visited set and returns the emitted
// paths in discovery order.
func Walk(root string) ([]string, error) {
	return New(Options{Root: root}).Walk()
}

// Walk performs the traversal. Directories reached through symbolic links
// are queued and walked after the directory that linked them, so the
// traversal is an explicit worklist rather than unbounded recursion.
func (w *Walker) Walk() ([]string, error) {
	if err := w.opts.Validate(); err != nil {
		return nil, err
	}

	root, err := filepath.Abs(w.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	w.root = root
	w.visited = make(visitedSet)
	w.files = make([]string, 0)
	rootReal := realPath(root)
	w.visited.add(rootReal)
	w.stats.Dirs++

	conf := fastwalk.Config{
		Follow:     false, // links are resolved here, against the visited set
		NumWorkers: 1,
		Sort:       fastwalk.SortLexical,
	}

	w.pending = append(w.pending, dirRef{real: rootReal, display: root})
	for len(w.pending) > 0 {
		dir := w.pending[0]
		w.pending = w.pending[1:]

		logger.Debug("walking directory", "path", dir.display, "real", dir.real)
		if err := fastwalk.Walk(&conf, dir.real, w.visitFunc(dir)); err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir.display, err)
		}
	}

	logger.Debug("walk complete",
		"root", root,
		"dirs", w.stats.Dirs,
		"files", w.stats.Files,
		"duplicates", w.stats.Duplicates,
		"skipped", w.stats.Skipped)

	return w.files, nil
}

// Stats returns the counters of the last walk.
func (w *Walker) Stats() Stats {
	return w.stats
}

// visitFunc returns the fastwalk callback for one worklist entry. fastwalk
// reports paths under dir.real; they are emitted under dir.display.
func (w *Walker) visitFunc(dir dirRef) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Reading a directory failed; this is not an entry resolution
			// problem and aborts the traversal.
			return err
		}
		if path == dir.real {
			return nil
		}

		display := path
		if rel, relErr := filepath.Rel(dir.real, path); relErr == nil {
			display = filepath.Join(dir.display, rel)
		}

		typ := d.Type()
		switch {
		case typ&fs.ModeSymlink != 0:
			w.handleSymlink(path, display)
			return nil
		case d.IsDir():
			return w.handleDir(path)
		case typ.IsRegular():
			w.handleFile(path, display)
			return nil
		default:
			// Sockets, devices and pipes carry no manifest content.
			return nil
		}
	}
}

// handleDir decides whether to descend into a directory found in place.
func (w *Walker) handleDir(path string) error {
	if !w.visited.add(realPath(path)) {
		w.stats.Duplicates++
		return fastwalk.SkipDir
	}
	w.stats.Dirs++
	return nil
}

// handleFile emits a regular file unless its real path was already seen.
func (w *Walker) handleFile(path, display string) {
	if !w.visited.add(realPath(path)) {
		w.stats.Duplicates++
		return
	}
	w.emit(display)
}

// handleSymlink resolves a link and treats it as its target.
func (w *Walker) handleSymlink(path, display string) {
	target, err := os.Stat(path)
	if err != nil {
		w.skip(display, err)
		return
	}

	switch {
	case target.IsDir():
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			w.skip(display, err)
			return
		}
		if !w.visited.add(real) {
			w.stats.Duplicates++
			return
		}
		w.stats.Dirs++
		w.pending = append(w.pending, dirRef{real: real, display: display})
	case target.Mode().IsRegular():
		w.handleFile(path, display)
	}
}

// emit appends a path to the result.
func (w *Walker) emit(path string) {
	w.files = append(w.files, path)
	w.stats.Files++
	if w.opts.OnFile != nil {
		w.opts.OnFile(path)
	}
}

// skip drops an entry that could not be resolved.
func (w *Walker) skip(path string, err error) {
	w.stats.Skipped++
	logger.Debug("skipping unresolvable entry", "path", path, "err", err)
	if w.opts.OnSkip != nil {
		w.opts.OnSkip(path, err)
	}
}

// realPath canonicalises path, falling back to the path itself.
func realPath(path string) string {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return real
}
