package services

import "errors"

// Caller-facing errors. Handlers turn these into status codes; none of them
// are fatal.
var (
	// ErrLocked rejects roster or catalog replacement while any winner
	// mapping exists. Wiping the mappings lifts the lock.
	ErrLocked = errors.New("winner mappings exist, roster and catalog are locked")
	// ErrUnknownPrize means the prize ID is not in the current catalog.
	ErrUnknownPrize = errors.New("no such prize")
	// ErrUnknownParticipant means the registration ID is not in the current
	// roster.
	ErrUnknownParticipant = errors.New("no such participant")
	// ErrAlreadyAssigned rejects a non-overwrite SetWinner on a prize that
	// already has a winner.
	ErrAlreadyAssigned = errors.New("prize already has a winner")
	// ErrNotAssigned rejects DeleteWinner on a prize that has no winner.
	ErrNotAssigned = errors.New("prize has not been drawn")
)

// CancellationOutcome reports how a single cancellation toggle went. Only
// CancellationUnknownID is a hard failure; the others are idempotency
// signals.
type CancellationOutcome int

const (
	// CancellationApplied means the list changed and was persisted.
	CancellationApplied CancellationOutcome = iota
	// CancellationAlreadyCancelled means the ID was already on the list.
	CancellationAlreadyCancelled
	// CancellationNotCancelled means the ID was not on the list.
	CancellationNotCancelled
	// CancellationUnknownID means the ID is not in the roster at all.
	CancellationUnknownID
)
