// match/errors.go
package match

import "errors"

// Validation errors. Reported to the originating participant only,
// match state untouched.
var (
	ErrInvalidMove = errors.New("invalid move")
)

// State conflict errors.
var (
	ErrMatchFull            = errors.New("match is already full")
	ErrNotJoinable          = errors.New("match is not available for joining")
	ErrNotPlaying           = errors.New("match is not in playing state")
	ErrMoveAlreadySubmitted = errors.New("move already submitted for this round")
	ErrRoundNotReady        = errors.New("both moves not yet submitted")
	ErrRoundNotResolved     = errors.New("round has not been resolved")
	ErrInvalidState         = errors.New("match state does not allow this transition")
)

// Lookup errors.
var (
	ErrNotFound           = errors.New("match not found")
	ErrUnknownParticipant = errors.New("participant not in this match")
	ErrNoActiveMatch      = errors.New("participant not in any match")
)

// ErrStaleVersion marks a deferred transition that arrived after the
// match moved on (reset, abandon, or an earlier advance). Callers
// swallow it as a no-op rather than surfacing it.
var ErrStaleVersion = errors.New("match version changed since scheduling")
