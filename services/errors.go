package services

import "errors"

// Expected, user-facing outcomes. Handlers translate these into
// transport responses; anything else is treated as a server fault.
var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("not authorized")
	ErrConflict       = errors.New("already exists")
	ErrFull           = errors.New("roster is full")
	ErrNotMember      = errors.New("not a member")
	ErrInvalidState   = errors.New("request already resolved")
	ErrInvalidRequest = errors.New("invalid request")
)

// ErrConditionFailed reports a conditional write that lost against the
// item's current state. Store callers re-read and re-derive the
// user-facing outcome instead of surfacing this directly.
var ErrConditionFailed = errors.New("conditional check failed")
