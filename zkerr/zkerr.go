// Package zkerr classifies the failures of the prove and verify pipelines.
//
// Every fallible step wraps its error in an *Error carrying a Kind, so a
// caller can tell a contract violation (Encoding) from an environmental
// failure (SRS) or a backend failure without parsing messages.
package zkerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the class of a pipeline failure.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors that were never classified.
	KindUnknown Kind = iota
	// KindArtifact: the circuit artifact is missing or malformed.
	KindArtifact
	// KindSRS: the reference string cannot be sized, written or read.
	KindSRS
	// KindEncoding: malformed or wrong-length witness input, or an unusable proof blob.
	KindEncoding
	// KindBackend: the proving or verifying backend failed to run.
	KindBackend
)

func (k Kind) String() string {
	switch k {
	case KindArtifact:
		return "ArtifactError"
	case KindSRS:
		return "SrsError"
	case KindEncoding:
		return "EncodingError"
	case KindBackend:
		return "BackendError"
	default:
		return "UnknownError"
	}
}

// Error is a classified failure. Op names the step that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E classifies err. An error that is already classified keeps its kind and
// gains the new op as context.
func E(kind Kind, op string, err error) error {
	var ze *Error
	if errors.As(err, &ze) {
		return &Error{Kind: ze.Kind, Op: op, Err: err}
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Artifact is shorthand for E(KindArtifact, ...).
func Artifact(op string, err error) error { return E(KindArtifact, op, err) }

// SRS is shorthand for E(KindSRS, ...).
func SRS(op string, err error) error { return E(KindSRS, op, err) }

// Encoding is shorthand for E(KindEncoding, ...).
func Encoding(op string, err error) error { return E(KindEncoding, op, err) }

// Backend is shorthand for E(KindBackend, ...).
func Backend(op string, err error) error { return E(KindBackend, op, err) }

// KindOf returns the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var ze *Error
	if errors.As(err, &ze) {
		return ze.Kind
	}
	return KindUnknown
}

// OpOf returns the innermost op recorded in err's chain, which is the step
// that originally failed.
func OpOf(err error) string {
	op := ""
	for err != nil {
		if ze, ok := err.(*Error); ok {
			op = ze.Op
		}
		err = errors.Unwrap(err)
	}
	return op
}

// Is reports whether err is classified with kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
