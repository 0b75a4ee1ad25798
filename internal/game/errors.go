package game

import (
	"errors"
	"fmt"
)

var (
	ErrWrongPhase      = errors.New("wrong phase")
	ErrCardNotInHand   = errors.New("card not in hand")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrTargetInvalid   = errors.New("invalid target")
	ErrNoPendingAttack = errors.New("no pending attack")
	ErrAwaitingDefense = errors.New("awaiting defense")
	ErrHandOverLimit   = errors.New("hand over limit")
	ErrGameOver        = errors.New("game over")
	ErrUnknownPlayer   = errors.New("unknown player")
)

// ValidationError is returned for a rejected intent. State is unchanged when
// one is returned.
type ValidationError struct {
	Kind   error // one of the Err* sentinels
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func reject(kind error, format string, args ...any) error {
	return &ValidationError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
