package types

import "errors"

// Patch validation errors. A patch that fails validation is a caller
// contract violation and is rejected before any state changes.
var (
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidData     = errors.New("invalid entity data")
	ErrInvalidMetadata = errors.New("invalid task metadata")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidPattern  = errors.New("invalid repeating pattern")
	ErrUnknownPatch    = errors.New("unknown patch kind")
)

// Order allocation errors.
var (
	ErrInvalidOrderKind = errors.New("invalid order kind")
	ErrInvalidCount     = errors.New("count must be positive")
)

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// Lookup errors returned by the CLI layer.
var (
	ErrNotFound = errors.New("entity not found")
)
