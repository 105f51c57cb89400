package types

import "errors"

// Lookup and resolution errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrUnmappedType  = errors.New("no mapper registered for entity type")
	ErrUnboundEntity = errors.New("entity has no id")
	ErrInvalidData   = errors.New("invalid entity data")
)

// Write errors. ErrExecFailed means the backend rejected the statement;
// the other three mean the statement ran but the write could not be
// finalized.
var (
	ErrExecFailed   = errors.New("statement execution failed")
	ErrCommitFailed = errors.New("db commit error")
	ErrUpdateFailed = errors.New("db update error")
	ErrDeleteFailed = errors.New("db delete error")
)

// Session errors.
var (
	ErrNoActiveSession = errors.New("no active session")
	ErrNoRegistry      = errors.New("session has no mapper registry")
)

// Registry lifecycle errors.
var (
	ErrDetached        = errors.New("registry is detached")
	ErrAlreadyAttached = errors.New("registry is already attached")
)

// Entity method errors.
var (
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidKind = errors.New("invalid course kind")
)
