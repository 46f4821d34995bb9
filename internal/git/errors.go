package git

import "errors"

var (
	// ErrNotARepository is returned when no repository contains the requested path.
	ErrNotARepository = errors.New("not a git repository")
	// ErrNoSymbolicReference is returned when HEAD is detached or unborn.
	ErrNoSymbolicReference = errors.New("HEAD is not a branch")
	// ErrNoUpstream is returned when a branch has no upstream configured.
	ErrNoUpstream = errors.New("no upstream configured")
	// ErrUnresolvableRange is returned when either end of a revision range
	// cannot be resolved to a commit.
	ErrUnresolvableRange = errors.New("unresolvable revision range")
)
