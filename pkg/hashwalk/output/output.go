// Package output renders the result of a hashwalk run in the formats
// selectable with --output (json, yaml, pretty, plain, template).
//
// Formatters are looked up by name in a registry:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, report); err != nil {
//	    return err
//	}
//	fmt.Print(buf.String())
//
// The json formatter emits only the Result object so that its shape stays
// {"csv", "hash", "compare", "isMatch"}. The other formats also show run
// statistics.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jamesainslie/hashwalk/pkg/hashwalk/logging"
	"github.com/jamesainslie/hashwalk/pkg/hashwalk/types"
)

var logger = logging.Get("output")

// ErrNoResult is returned when a Report carries no Result.
var ErrNoResult = errors.New("report has no result")

// Report is what formatters render: the Result of one run and context that
// is not part of the Result contract.
type Report struct {
	*types.Result

	// Stats holds the run counters.
	Stats types.Stats

	// Root is the absolute directory that was scanned.
	Root string

	// Algorithm is the canonical algorithm name.
	Algorithm string
}

// Compared reports whether the run compared its digest with a target.
func (r *Report) Compared() bool {
	return r.Result != nil && r.Result.Compared()
}

// Status is a one-word summary of the comparison: "match", "mismatch" or
// "none".
func (r *Report) Status() string {
	switch {
	case !r.Compared():
		return "none"
	case *r.IsMatch:
		return "match"
	default:
		return "mismatch"
	}
}

func (r *Report) check() error {
	if r == nil || r.Result == nil {
		return ErrNoResult
	}
	return nil
}

// Formatter renders a Report.
type Formatter interface {
	// Format writes the rendered report to the buffer.
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory, replacing any with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return factory(), nil
}

// Available returns the sorted names of all registered formatters.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
