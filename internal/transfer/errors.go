package transfer

import "errors"

var (
	// ErrNotFound is returned when no transfer exists for the given id.
	ErrNotFound = errors.New("transfer not found")

	// ErrInvalidAmount rejects creation with a non-positive send amount,
	// a negative fee or a non-positive exchange rate.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidRecipient rejects creation with an incomplete recipient
	// snapshot.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrAlreadyTerminal signals an advance attempt on a settled transfer.
	// Callers treat it as a no-op, not a failure.
	ErrAlreadyTerminal = errors.New("transfer already terminal")

	// ErrInvalidStatus signals a status outside the transition table. It
	// indicates an upstream programming error and aborts the advance chain
	// for that transfer.
	ErrInvalidStatus = errors.New("invalid transfer status")

	// ErrClearanceHeld signals that a flagged transfer is waiting on a
	// reviewer and cannot advance automatically.
	ErrClearanceHeld = errors.New("clearance held for review")
)
