package models

import "errors"

// ErrTransitionNotAllowed is returned by a TransitionGuard that refuses a move.
var ErrTransitionNotAllowed = errors.New("status transition not allowed")

// TransitionGuard decides whether an application may move between states.
// Without a guard any state may move to any state.
type TransitionGuard interface {
	Check(from, to Status) error
}

// StrictGuard allows only pending -> accepted and pending -> rejected.
// Re-applying the current status is always allowed.
type StrictGuard struct{}

func (StrictGuard) Check(from, to Status) error {
	if from == to {
		return nil
	}
	if from == StatusPending && (to == StatusAccepted || to == StatusRejected) {
		return nil
	}
	return ErrTransitionNotAllowed
}
