package session

import (
	"errors"
	"fmt"
)

// ===== SESSION ERRORS =====

var (
	// ErrNoQuestionsAvailable is returned instead of starting a session when
	// preprocessing leaves no playable questions. Terminal and user-visible,
	// not a crash.
	ErrNoQuestionsAvailable = errors.New("no questions available")

	ErrSessionNotStarted       = errors.New("session not started")
	ErrNoPendingAnswer         = errors.New("no answer selected")
	ErrSkipNotAllowed          = errors.New("skipping is disabled for this mode")
	ErrHintsNotAllowed         = errors.New("hints are disabled for this mode")
	ErrSecondChanceUnavailable = errors.New("second chance not available")
	ErrQuestionNotCrossword    = errors.New("question is not a crossword")
)

// InvalidTransitionError reports an event issued in a state that does not
// accept it. The session state is unchanged; the caller must correct usage.
type InvalidTransitionError struct {
	Event string `json:"event"`
	State State  `json:"state"`
	Index int    `json:"index"`
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: event %s not accepted in state %s (question %d)", e.Event, e.State, e.Index)
}

func newInvalidTransition(event string, state State, index int) error {
	return &InvalidTransitionError{Event: event, State: state, Index: index}
}

// IsInvalidTransition checks if err represents a rejected state-machine event.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
