package schema

import "github.com/christophevg/schema-tools/errors"

const (
	// ErrResolution is returned when a reference target cannot be located, fetched or parsed, or when a
	// reference chain loops back onto itself.
	ErrResolution = errors.Error("resolution error")
	// ErrNotImplemented is wrapped by ErrResolution for fragment shapes that cannot be resolved.
	ErrNotImplemented = errors.Error("not implemented")
	// ErrPathType is returned when a path segment passed to Select or Trace is not a string.
	ErrPathType = errors.Error("path segments must be strings")
	// ErrNotSchema is returned when a document cannot be built into a schema at all.
	ErrNotSchema = errors.Error("not a schema")
)
