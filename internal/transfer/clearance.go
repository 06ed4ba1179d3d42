package transfer

// Decision is the outcome of evaluating a flagged transfer.
type Decision int

const (
	// DecisionGrant releases the transfer to CLEARANCE_GRANTED.
	DecisionGrant Decision = iota
	// DecisionHold parks the transfer until a reviewer acts.
	DecisionHold
	// DecisionReject moves the transfer to the terminal REJECTED status.
	DecisionReject
)

// ClearancePolicy decides what happens to a transfer sitting in
// FLAGGED_AWAITING_CLEARANCE. The policy is advisory only; the state machine
// performs the actual move.
type ClearancePolicy interface {
	Evaluate(t *Transfer) Decision
}

// AutoGrant releases every flagged transfer. The waiting period comes from
// the scheduler's transition delay, so the flagged status is still visible
// to observers before clearance.
type AutoGrant struct{}

func (AutoGrant) Evaluate(*Transfer) Decision { return DecisionGrant }

// ManualReview holds every flagged transfer until a reviewer grants or
// rejects it through the service.
type ManualReview struct{}

func (ManualReview) Evaluate(*Transfer) Decision { return DecisionHold }
