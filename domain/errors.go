package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy for the rules engine. Every handler returns one of
// these wrapped with context; callers branch with errors.Is.
var (
	// ErrNotFound means the session (or profile) id is unknown.
	ErrNotFound = errors.New("not found")

	// ErrPhaseMismatch means the action is invalid for the current phase.
	ErrPhaseMismatch = errors.New("phase mismatch")

	// ErrTurnViolation means the actor is not the player whose turn it is.
	ErrTurnViolation = errors.New("turn violation")

	// ErrIllegalCard means a card is not in hand, not returnable to the
	// talon, or the wrong number of cards was supplied.
	ErrIllegalCard = errors.New("illegal card")

	// ErrCallIneligible means the player lacks the king+queen pair or has
	// already used all three calls.
	ErrCallIneligible = errors.New("call ineligible")

	// ErrInvariantViolation flags internal state corruption (deck or hand
	// count mismatch). It indicates a defect, not caller error.
	ErrInvariantViolation = errors.New("invariant violation")
)

// NotFoundErr wraps ErrNotFound with the offending id.
func NotFoundErr(kind, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
}

// PhaseMismatchErr wraps ErrPhaseMismatch with the attempted action.
func PhaseMismatchErr(action string, phase Phase) error {
	return fmt.Errorf("%w: cannot %s during %s", ErrPhaseMismatch, action, phase)
}

// TurnViolationErr wraps ErrTurnViolation with the offending player.
func TurnViolationErr(playerID string) error {
	return fmt.Errorf("%w: not %s's turn", ErrTurnViolation, playerID)
}

// IllegalCardErr wraps ErrIllegalCard with a reason.
func IllegalCardErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalCard, fmt.Sprintf(format, args...))
}

// CallIneligibleErr wraps ErrCallIneligible with a reason.
func CallIneligibleErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCallIneligible, fmt.Sprintf(format, args...))
}

// InvariantErr wraps ErrInvariantViolation with a description.
func InvariantErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
