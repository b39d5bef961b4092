package model

import "errors"

// Error taxonomy shared across layers. Services wrap these with context via
// fmt.Errorf("%w: ..."); handlers unwrap with errors.Is to pick a status.
var (
	// ErrValidation marks malformed or out-of-range caller input. The
	// underlying record is never modified when it is returned.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a problem or user that does not exist or does not
	// belong to the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a lost compare-and-swap on a revision schedule:
	// another request updated the problem between load and write.
	ErrConflict = errors.New("concurrent modification")

	// ErrInconsistentState marks a revisionCount that diverged from the
	// history length. This indicates a persistence bug and is never
	// silently reconciled.
	ErrInconsistentState = errors.New("revision count does not match history length")

	// ErrUnauthorized marks a failed login or an invalid token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateEmail marks a registration against an existing email.
	ErrDuplicateEmail = errors.New("email already registered")
)
