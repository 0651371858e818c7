// Package pipeline runs one hashwalk invocation end to end: walk the root,
// write the manifest, hash it, and optionally compare the digest with a
// reference.
//
// A run is strictly sequential. Files are hashed one at a time in sorted
// order and there is no cancellation; a run either completes or fails.
package pipeline

import (
	"errors"
	"iter"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/hasher"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/logging"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/manifest"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/verify"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/walker"
)

var logger = logging.Get("pipeline")

// Options configures a run.
type Options struct {
	// Root is the directory to scan. Relative paths resolve against the
	// working directory.
	Root string

	// Algorithm names the hash algorithm. Empty means hasher.DefaultAlgorithm.
	Algorithm string

	// Compare is the optional comparison target: a file path or a literal
	// digest. Empty means no comparison.
	Compare string

	// CSVDirectory receives the manifest. Empty means manifest.DefaultDir.
	// It is created if missing.
	CSVDirectory string

	// DeterministicErrors writes ERROR_<CODE> markers without a timestamp.
	DeterministicErrors bool

	// OnProgress, when set, is called on every phase change and per file.
	OnProgress func(types.Progress)

	// Now is the clock used for the manifest name and error markers.
	// Nil means time.Now.
	Now func() time.Time
}

// Pipeline is a single-use run.
type Pipeline struct {
	opts     Options
	phase    types.Phase
	progress types.Progress
	stats    types.Stats
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{opts: opts}
}

// Run executes a run with opts.
func Run(opts Options) (*types.Result, error) {
	return New(opts).Run()
}

// Phase returns the current state.
func (p *Pipeline) Phase() types.Phase {
	return p.phase
}

// Stats returns the counters of the run.
func (p *Pipeline) Stats() types.Stats {
	return p.stats
}

// Run executes the state machine. Every returned error is a *types.Error.
func (p *Pipeline) Run() (*types.Result, error) {
	if p.phase != types.PhaseIdle {
		return nil, types.NewError(types.KindUnknown, nil, "pipeline already run")
	}
	start := p.opts.Now()
	defer func() { p.stats.Elapsed = p.opts.Now().Sub(start) }()

	algo, err := p.algorithm()
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(types.PhaseWalking)
	root, files, err := p.walk()
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(types.PhaseBuildingManifest)
	csvPath, err := p.build(root, files, algo)
	if err != nil {
		return nil, p.fail(err)
	}

	p.enter(types.PhaseHashingManifest)
	digest, err := verify.ManifestDigest(csvPath, algo)
	if err != nil {
		return nil, p.fail(err)
	}
	result := &types.Result{CSV: csvPath, Hash: digest}

	if p.opts.Compare != "" {
		p.enter(types.PhaseComparingTarget)
		c, err := verify.Compare(digest, p.opts.Compare, algo)
		if err != nil {
			return nil, p.fail(err)
		}
		target := p.opts.Compare
		match := c.IsMatch
		result.Compare = &target
		result.IsMatch = &match
	}

	p.enter(types.PhaseDone)
	logger.Info("run complete",
		"csv", result.CSV,
		"hash", result.Hash,
		"files", p.stats.Files,
		"error_rows", p.stats.ErrorRows,
		"compared", result.Compared(),
		"match", result.Matched())
	return result, nil
}

func (p *Pipeline) algorithm() (hasher.Algorithm, error) {
	name := p.opts.Algorithm
	if name == "" {
		name = hasher.DefaultAlgorithm
	}
	algo, err := hasher.Lookup(name)
	if err != nil {
		return hasher.Algorithm{}, types.NewError(types.KindUnsupportedAlgorithm, err, "select hash")
	}
	return algo, nil
}

// walk resolves the root and returns it with its files in sorted order.
func (p *Pipeline) walk() (string, []string, error) {
	if p.opts.Root == "" {
		return "", nil, types.NewError(types.KindInvalidRoot, nil, "missing root directory")
	}
	root, err := filepath.Abs(p.opts.Root)
	if err != nil {
		return "", nil, types.NewError(types.KindInvalidRoot, err, "invalid directory path: %s", p.opts.Root)
	}
	if !verify.IsDirectory(root) {
		return "", nil, types.NewError(types.KindInvalidRoot, nil, "invalid directory path: %s", p.opts.Root)
	}

	w := walker.New(walker.Options{
		Root: root,
		OnFile: func(path string) {
			p.progress.FilesFound++
			p.progress.CurrentPath = path
			p.notify()
		},
	})
	files, err := w.Walk()
	if err != nil {
		if errors.Is(err, walker.ErrNotDirectory) || errors.Is(err, os.ErrNotExist) {
			return "", nil, types.NewError(types.KindInvalidRoot, err, "invalid directory path: %s", p.opts.Root)
		}
		return "", nil, types.NewError(types.KindTraversal, err, "traversal failed")
	}

	sort.Strings(files)
	ws := w.Stats()
	logger.Debug("walk finished",
		"root", root,
		"files", len(files),
		"duplicates", ws.Duplicates,
		"skipped", ws.Skipped)
	return root, files, nil
}

// build writes the manifest for files and returns its absolute path.
func (p *Pipeline) build(root string, files []string, algo hasher.Algorithm) (string, error) {
	dir := p.opts.CSVDirectory
	if dir == "" {
		dir = manifest.DefaultDir()
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", types.NewError(types.KindManifestWrite, err, "resolve manifest directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", types.NewError(types.KindManifestWrite, err, "create manifest directory")
	}

	path := filepath.Join(dir, manifest.FileName(p.opts.Now(), algo.Name))
	ws, err := manifest.Write(path, p.observe(manifest.Records(files, root, algo)), p.marker())
	if err != nil {
		return "", types.NewError(types.KindManifestWrite, err, "write manifest %s", path)
	}

	p.stats.Files = ws.Rows
	p.stats.ErrorRows = ws.ErrorRows
	p.stats.BytesHashed = ws.BytesHashed
	if ws.ErrorRows > 0 {
		logger.Warn("manifest contains error markers", "path", path, "error_rows", ws.ErrorRows)
	}
	return path, nil
}

func (p *Pipeline) marker() manifest.Marker {
	if p.opts.DeterministicErrors {
		return manifest.DeterministicMarker
	}
	return manifest.TimestampMarker(p.opts.Now)
}

// observe reports progress as entries flow from the builder to the writer.
func (p *Pipeline) observe(entries iter.Seq[manifest.Entry]) iter.Seq[manifest.Entry] {
	if p.opts.OnProgress == nil {
		return entries
	}
	return func(yield func(manifest.Entry) bool) {
		for e := range entries {
			p.progress.FilesHashed++
			if !e.Digest.OK() {
				p.progress.ErrorRows++
			}
			p.progress.CurrentPath = e.RelativePath
			p.notify()
			if !yield(e) {
				return
			}
		}
	}
}

func (p *Pipeline) enter(phase types.Phase) {
	logger.Debug("phase transition", "from", p.phase, "to", phase)
	p.phase = phase
	p.progress.Phase = phase
	p.progress.CurrentPath = ""
	p.notify()
}

func (p *Pipeline) fail(err error) error {
	from := p.phase
	p.enter(types.PhaseFailed)

	var te *types.Error
	if !errors.As(err, &te) {
		te = types.NewError(types.KindUnknown, err, "run failed")
	}
	logger.Error("run failed", "phase", from, "kind", te.Kind, "err", te)
	return te
}

func (p *Pipeline) notify() {
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(p.progress)
	}
}
