package transfer

import (
	"fmt"
	"time"
)

// transition is one row of the state machine. flaggedNext, when set, is
// taken instead of next for transfers that require authorization.
type transition struct {
	next        Status
	flaggedNext Status
}

// transitions enumerates every legal forward edge. Terminal statuses have no
// entry. The only branch point is CONVERTING, where flagged transfers detour
// through the clearance pair before rejoining at IN_TRANSIT.
var transitions = map[Status]transition{
	StatusSubmitted:                {next: StatusConverting},
	StatusConverting:               {next: StatusInTransit, flaggedNext: StatusFlaggedAwaitingClearance},
	StatusFlaggedAwaitingClearance: {next: StatusClearanceGranted},
	StatusClearanceGranted:         {next: StatusInTransit},
	StatusInTransit:                {next: StatusFundsArrived},
	StatusPendingDeposit:           {next: StatusFundsArrived},
}

// Next returns the status that follows from, for a transfer whose
// RequiresAuth flag is flagged. It returns ErrAlreadyTerminal for terminal
// statuses and ErrInvalidStatus for statuses outside the table.
func Next(from Status, flagged bool) (Status, error) {
	if from.Terminal() {
		return "", ErrAlreadyTerminal
	}

	tr, ok := transitions[from]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, from)
	}

	if flagged && tr.flaggedNext != "" {
		return tr.flaggedNext, nil
	}

	return tr.next, nil
}

// Advance moves t one step forward and returns the updated copy. The input
// is never mutated; callers own persistence of the result. The first entry
// into the new status is stamped with now, and an already-recorded timestamp
// is never overwritten.
func Advance(t *Transfer, now time.Time) (*Transfer, error) {
	next, err := Next(t.Status, t.RequiresAuth)
	if err != nil {
		return nil, err
	}

	out := t.Clone()
	out.Status = next

	if _, ok := out.StatusTimestamps[next]; !ok {
		out.StatusTimestamps[next] = now
	}

	return out, nil
}

// Path returns the ordered list of statuses t visits on its way to a
// terminal status, given its type and RequiresAuth flag. Presentation
// consumers render it as the progress timeline.
func Path(t *Transfer) []Status {
	cur := StatusSubmitted
	if t.Type == TypeCredit {
		cur = StatusPendingDeposit
	}

	path := []Status{cur}

	for {
		if t.Status == StatusRejected && cur == StatusFlaggedAwaitingClearance {
			return append(path, StatusRejected)
		}

		next, err := Next(cur, t.RequiresAuth)
		if err != nil {
			return path
		}

		path = append(path, next)
		cur = next
	}
}

// Reject moves a flagged transfer to the terminal REJECTED status. It is
// only legal from FLAGGED_AWAITING_CLEARANCE.
func Reject(t *Transfer, now time.Time) (*Transfer, error) {
	if t.Status.Terminal() {
		return nil, ErrAlreadyTerminal
	}

	if t.Status != StatusFlaggedAwaitingClearance {
		return nil, fmt.Errorf("%w: cannot reject from %q", ErrInvalidStatus, t.Status)
	}

	out := t.Clone()
	out.Status = StatusRejected

	if _, ok := out.StatusTimestamps[StatusRejected]; !ok {
		out.StatusTimestamps[StatusRejected] = now
	}

	return out, nil
}
