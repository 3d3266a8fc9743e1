package transfer

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure kinds an operation can surface.
// Use errors.Is(err, transfer.ErrNotFound) to check; the typed wrappers
// below carry the detail.
var (
	ErrNotFound      = errors.New("transfer: not found")
	ErrAmbiguousPath = errors.New("transfer: ambiguous path")
	ErrTransport     = errors.New("transfer: remote call failed")
	ErrIO            = errors.New("transfer: local io failed")
)

// NotFoundError reports that a folder segment or file name matched nothing
// under its parent.
type NotFoundError struct {
	Name       string // the segment or file name that did not match
	ParentPath string // resolved path of the parent folder, "/" for root
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("transfer: %q not found in %q", e.Name, e.ParentPath)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AmbiguousPathError reports that a folder segment matched more than one
// folder under the same parent. There is no deterministic tie-break for
// folders, so resolution stops here.
type AmbiguousPathError struct {
	Segment      string
	ParentPath   string
	CandidateIDs []string
}

func (e *AmbiguousPathError) Error() string {
	return fmt.Sprintf("transfer: folder %q is ambiguous in %q (candidates: %s)",
		e.Segment, e.ParentPath, strings.Join(e.CandidateIDs, ", "))
}

func (e *AmbiguousPathError) Unwrap() error { return ErrAmbiguousPath }

// TransportError wraps a remote-store failure (network, auth, quota). The
// store handles its own retries; by the time this surfaces the call has
// failed for good.
type TransportError struct {
	Op  string // the operation that failed, e.g. "listing children"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transfer: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() []error { return []error{ErrTransport, e.Err} }

// IOError wraps a local filesystem failure.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("transfer: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
