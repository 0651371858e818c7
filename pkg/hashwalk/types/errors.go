package types

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a fatal failure.
type Kind int

// Fatal error kinds. Non-fatal conditions (skipped entries, error rows)
// never produce an Error.
const (
	KindUnknown Kind = iota
	KindInvalidRoot
	KindUnsupportedAlgorithm
	KindTraversal
	KindManifestWrite
	KindManifestHash
	KindComparisonTargetHash
)

// String returns the kind name used in logs and verbose output.
func (k Kind) String() string {
	switch k {
	case KindInvalidRoot:
		return "InvalidRoot"
	case KindUnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case KindTraversal:
		return "Traversal"
	case KindManifestWrite:
		return "ManifestWrite"
	case KindManifestHash:
		return "ManifestHash"
	case KindComparisonTargetHash:
		return "ComparisonTargetHash"
	default:
		return "Unknown"
	}
}

// Error is the single structured error surfaced for a failed run.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError returns an Error of the given kind wrapping err.
func NewError(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// Error returns the terse message.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind so callers can use errors.Is with a
// kind-only target such as &Error{Kind: KindInvalidRoot}.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Verbose renders the kind and every wrapped cause, one per line.
func (e *Error) Verbose() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	for cause := e.Err; cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(&b, "\n  caused by: %v", cause)
	}
	return b.String()
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
