package transfer

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the direction of a transfer from the account's perspective.
type Type string

const (
	TypeDebit  Type = "debit"
	TypeCredit Type = "credit"
)

// DeliverySpeed selects the settlement window promised at creation.
type DeliverySpeed string

const (
	SpeedStandard DeliverySpeed = "standard"
	SpeedExpress  DeliverySpeed = "express"
)

// Status represents the lifecycle state of a transfer.
type Status string

const (
	StatusSubmitted                Status = "submitted"
	StatusConverting               Status = "converting"
	StatusFlaggedAwaitingClearance Status = "flagged_awaiting_clearance"
	StatusClearanceGranted         Status = "clearance_granted"
	StatusInTransit                Status = "in_transit"
	StatusFundsArrived             Status = "funds_arrived"
	StatusPendingDeposit           Status = "pending_deposit"
	StatusRejected                 Status = "rejected"
)

// Terminal reports whether no further transitions may occur from s.
func (s Status) Terminal() bool {
	return s == StatusFundsArrived || s == StatusRejected
}

// Recipient is a snapshot of the payee taken at creation time. It is an
// immutable copy, not a reference: editing a saved beneficiary later never
// changes what a past transfer was sent to.
type Recipient struct {
	Name          string
	AccountNumber string
	BankName      string
	Country       string
	Currency      string
}

// Complete reports whether the snapshot carries the minimum fields a
// transfer can be routed with.
func (r Recipient) Complete() bool {
	return r.Name != "" && r.AccountNumber != "" && r.Country != ""
}

// Transfer represents a single money movement and its status history.
type Transfer struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Recipient Recipient

	SendAmount      int64 // minor units of the source currency
	ReceiveAmount   int64 // minor units of ReceiveCurrency
	ReceiveCurrency string
	Fee             int64
	ExchangeRate    float64

	Purpose       string
	DeliverySpeed DeliverySpeed
	Type          Type

	Status Status
	// StatusTimestamps records the first entry into each status. Entries are
	// appended, never overwritten or removed.
	StatusTimestamps map[Status]time.Time

	EstimatedArrival time.Time
	RequiresAuth     bool
	Reviewed         bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Clone returns a deep copy, including the timestamp map.
func (t *Transfer) Clone() *Transfer {
	out := *t

	out.StatusTimestamps = make(map[Status]time.Time, len(t.StatusTimestamps))
	for s, at := range t.StatusTimestamps {
		out.StatusTimestamps[s] = at
	}

	if t.UpdatedAt != nil {
		at := *t.UpdatedAt
		out.UpdatedAt = &at
	}

	return &out
}

// EnteredAt returns the recorded first-entry time for the given status.
func (t *Transfer) EnteredAt(s Status) (time.Time, bool) {
	at, ok := t.StatusTimestamps[s]
	return at, ok
}

// ListFilter narrows ListTransfers results.
type ListFilter struct {
	AccountID *uuid.UUID
	Status    *Status
}
