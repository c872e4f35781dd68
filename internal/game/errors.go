package game

import (
	"errors"
	"fmt"
)

// Expected failure conditions are values, never panics. Handlers match
// them with errors.Is to pick a response status; the wrapped message is
// the user-facing reason.
var (
	// ErrLobbyNotFound means the lobby code resolves to nothing.
	ErrLobbyNotFound = errors.New("lobby not found")

	// ErrRoundNotFound means the lobby has no current round.
	ErrRoundNotFound = errors.New("no round in progress")

	// ErrUnauthorized means the caller may not perform this action
	// (wrong host, wrong referee, not a member). No state changed.
	ErrUnauthorized = errors.New("not allowed")

	// ErrNotYourTurn means a turn-gated action came from a player who
	// does not hold the turn. No state changed.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrConflict means the action collides with current state, e.g.
	// volunteering for a slot that is already filled. No state changed.
	ErrConflict = errors.New("conflict")

	// ErrValidation means a precondition failed, e.g. starting a game
	// without both volunteers. No state changed.
	ErrValidation = errors.New("validation failed")
)

func unauthorized(reason string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, reason)
}

func conflict(reason string) error {
	return fmt.Errorf("%w: %s", ErrConflict, reason)
}

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
