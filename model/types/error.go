package types

import "errors"

// Shared error taxonomy for kernel operations.  Using sentinel variables
// allows callers to reliably detect error conditions via errors.Is/As
// instead of brittle string comparisons.

var (
	// ErrNotFound is returned when the requested process, thread or region
	// does not exist.
	ErrNotFound = errors.New("kernos: not found")

	// ErrResourceExhausted indicates that no free process slot or memory
	// mapping was available.  Any partial allocation performed by the failed
	// operation has already been rolled back when this error is returned.
	ErrResourceExhausted = errors.New("kernos: resource exhausted")

	// ErrProtected is returned on attempts to terminate or reparent the init
	// process (pid 1).
	ErrProtected = errors.New("kernos: init process is protected")

	// ErrAlreadyTerminated is the idempotent outcome of terminating a
	// process that is already a zombie or has been reaped.  It carries no
	// side effects.
	ErrAlreadyTerminated = errors.New("kernos: already terminated")

	// ErrStateConflict flags an internal invariant violation, e.g. a process
	// that is simultaneously ready and blocked.  It is fatal to the
	// operation that detected it and must never be silently absorbed.
	ErrStateConflict = errors.New("kernos: state conflict")

	// ErrNoCurrent is returned by operations that require a running process
	// when none is dispatched.
	ErrNoCurrent = errors.New("kernos: no current process")
)
