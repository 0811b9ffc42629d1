package merge

import (
	"errors"
	"fmt"
)

// ErrInvalidPath marks operation paths that descend through a non-mapping
// node. Paths in this system are always mapping-of-mapping chains, so hitting
// a sequence or scalar mid-path is a programming defect, not user input.
var ErrInvalidPath = errors.New("path traverses a non-mapping node")

// InvalidPathError identifies the offending segment of a bad path.
type InvalidPathError struct {
	Path    string
	Segment string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: segment %q is not a mapping", e.Path, e.Segment)
}

func (e *InvalidPathError) Unwrap() error {
	return ErrInvalidPath
}

// MissingRequiredPathError reports a required operation that could not be
// resolved or applied. Fatal for the whole generation run.
type MissingRequiredPathError struct {
	Path string
	Err  error
}

func (e *MissingRequiredPathError) Error() string {
	return fmt.Sprintf("required path %q could not be applied: %v", e.Path, e.Err)
}

func (e *MissingRequiredPathError) Unwrap() error {
	return e.Err
}
