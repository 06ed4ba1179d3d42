package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transfer
type Repository interface {
	CreateTransfer(ctx context.Context, t *Transfer) error
	GetTransfer(ctx context.Context, id uuid.UUID) (*Transfer, error)
	ListTransfers(ctx context.Context, filter ListFilter) ([]*Transfer, error)

	// AdvanceTransfer persists a status move: the transfer row is updated
	// and the first-entry timestamp for the new status is appended.
	AdvanceTransfer(ctx context.Context, t *Transfer) error

	SetReviewed(ctx context.Context, id uuid.UUID, reviewed bool) error
}

// Service orchestrates the factory, the state machine and the clearance
// policy over a Repository. It holds no transfer state between calls.
type Service struct {
	repo    Repository
	factory *Factory
	policy  ClearancePolicy
	now     func() time.Time
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithServiceClock overrides the service's time source. Used by tests.
func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, factory *Factory, policy ClearancePolicy, opts ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		factory: factory,
		policy:  policy,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transfer, error) {
	t, err := s.factory.Create(params)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransfer(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	return s.repo.GetTransfer(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transfer, error) {
	return s.repo.ListTransfers(ctx, filter)
}

// Advance moves the transfer one step forward and persists the result. A
// flagged transfer is first put to the clearance policy: a Hold returns the
// unchanged transfer with ErrClearanceHeld, a Reject routes to the terminal
// REJECTED status. ErrAlreadyTerminal is returned with the unchanged
// transfer so callers can treat it as a no-op.
func (s *Service) Advance(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	t, err := s.repo.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Status.Terminal() {
		return t, ErrAlreadyTerminal
	}

	if t.Status == StatusFlaggedAwaitingClearance {
		switch s.policy.Evaluate(t) {
		case DecisionHold:
			return t, ErrClearanceHeld
		case DecisionReject:
			return s.reject(ctx, t)
		case DecisionGrant:
		}
	}

	next, err := Advance(t, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.AdvanceTransfer(ctx, next); err != nil {
		return nil, fmt.Errorf("persisting advance to %s: %w", next.Status, err)
	}

	return next, nil
}

// GrantClearance is the reviewer action that releases a held transfer. It
// bypasses the clearance policy and is only legal from
// FLAGGED_AWAITING_CLEARANCE.
func (s *Service) GrantClearance(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	t, err := s.repo.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Status != StatusFlaggedAwaitingClearance {
		return nil, fmt.Errorf("%w: clearance grant on %q", ErrInvalidStatus, t.Status)
	}

	next, err := Advance(t, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.AdvanceTransfer(ctx, next); err != nil {
		return nil, fmt.Errorf("persisting clearance grant: %w", err)
	}

	return next, nil
}

// RejectClearance is the reviewer action that refuses a held transfer.
func (s *Service) RejectClearance(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	t, err := s.repo.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.reject(ctx, t)
}

func (s *Service) reject(ctx context.Context, t *Transfer) (*Transfer, error) {
	next, err := Reject(t, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.AdvanceTransfer(ctx, next); err != nil {
		return nil, fmt.Errorf("persisting rejection: %w", err)
	}

	return next, nil
}

// MarkReviewed records the reviewer's acknowledgement flag. The engine never
// consults it; it exists for the presentation layer.
func (s *Service) MarkReviewed(ctx context.Context, id uuid.UUID, reviewed bool) error {
	return s.repo.SetReviewed(ctx, id, reviewed)
}
