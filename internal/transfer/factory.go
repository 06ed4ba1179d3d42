package transfer

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// FlagRule decides at creation time whether a transfer must pass compliance
// clearance before settling.
type FlagRule interface {
	ShouldFlag(p CreateParams) bool
}

// FlagRuleFunc adapts a plain function to the FlagRule interface.
type FlagRuleFunc func(p CreateParams) bool

func (f FlagRuleFunc) ShouldFlag(p CreateParams) bool { return f(p) }

// CreateParams carries the transfer intent collected from the caller. The
// balance check on AccountID is the caller's responsibility and is assumed
// to have passed.
type CreateParams struct {
	AccountID       uuid.UUID
	Recipient       Recipient
	SendAmount      int64
	ReceiveCurrency string
	Fee             int64
	ExchangeRate    float64
	Purpose         string
	DeliverySpeed   DeliverySpeed
	Type            Type
}

// Windows holds the promised settlement windows per delivery speed.
type Windows struct {
	Standard time.Duration
	Express  time.Duration
}

// Factory builds well-formed transfers from transfer intents.
type Factory struct {
	rule    FlagRule
	windows Windows
	now     func() time.Time
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithClock overrides the factory's time source. Used by tests.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) { f.now = now }
}

func NewFactory(rule FlagRule, windows Windows, opts ...FactoryOption) *Factory {
	f := &Factory{
		rule:    rule,
		windows: windows,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create validates p and returns a new transfer in its initial status with
// the first status timestamp recorded. Debit transfers start at SUBMITTED;
// credit transfers (check deposits) start at PENDING_DEPOSIT. Amounts, fee,
// rate and the estimated arrival are fixed here and never recomputed.
func (f *Factory) Create(p CreateParams) (*Transfer, error) {
	if p.SendAmount <= 0 {
		return nil, fmt.Errorf("%w: send amount must be positive, got %d", ErrInvalidAmount, p.SendAmount)
	}

	if p.Fee < 0 {
		return nil, fmt.Errorf("%w: fee must not be negative, got %d", ErrInvalidAmount, p.Fee)
	}

	if p.ExchangeRate <= 0 {
		return nil, fmt.Errorf("%w: exchange rate must be positive, got %g", ErrInvalidAmount, p.ExchangeRate)
	}

	if !p.Recipient.Complete() {
		return nil, fmt.Errorf("%w: name, account number and country are required", ErrInvalidRecipient)
	}

	now := f.now()

	initial := StatusSubmitted
	if p.Type == TypeCredit {
		initial = StatusPendingDeposit
	}

	window := f.windows.Standard
	if p.DeliverySpeed == SpeedExpress {
		window = f.windows.Express
	}

	return &Transfer{
		ID:              uuid.New(),
		AccountID:       p.AccountID,
		Recipient:       p.Recipient,
		SendAmount:      p.SendAmount,
		ReceiveAmount:   int64(math.Round(float64(p.SendAmount) * p.ExchangeRate)),
		ReceiveCurrency: p.ReceiveCurrency,
		Fee:             p.Fee,
		ExchangeRate:    p.ExchangeRate,
		Purpose:         p.Purpose,
		DeliverySpeed:   p.DeliverySpeed,
		Type:            p.Type,
		Status:          initial,
		StatusTimestamps: map[Status]time.Time{
			initial: now,
		},
		EstimatedArrival: now.Add(window),
		RequiresAuth:     f.rule.ShouldFlag(p),
		CreatedAt:        now,
	}, nil
}
