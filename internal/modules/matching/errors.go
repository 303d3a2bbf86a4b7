package matching

import "errors"

var (
	ErrInsufficientParticipants   = errors.New("at least two participants are required for a draw")
	ErrManualAssignmentOutOfScope = errors.New("manual assignment references someone who is not a participant")
	ErrManualAssignmentConflict   = errors.New("manual assignments conflict with each other")
	ErrUnsatisfiableSingleton     = errors.New("a single free participant would have to give to themselves")
	ErrMatchingRetriesExhausted   = errors.New("no valid assignment found within the attempt limit")
	ErrIncompleteAssignment       = errors.New("assignment does not cover every participant exactly once")
)
