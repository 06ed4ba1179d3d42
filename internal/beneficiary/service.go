package beneficiary

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelines/remit/internal/transfer"
)

var (
	ErrNotFound   = errors.New("beneficiary not found")
	ErrIncomplete = errors.New("beneficiary incomplete")
)

type Repository interface {
	CreateBeneficiary(ctx context.Context, b *Beneficiary) error
	GetBeneficiary(ctx context.Context, id uuid.UUID) (*Beneficiary, error)
	ListBeneficiaries(ctx context.Context) ([]*Beneficiary, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name          string
	AccountNumber string
	BankName      string
	Country       string
	Currency      string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Beneficiary, error) {
	if params.Name == "" || params.AccountNumber == "" || params.Country == "" {
		return nil, fmt.Errorf("%w: name, account number and country are required", ErrIncomplete)
	}

	b := &Beneficiary{
		Name:          params.Name,
		AccountNumber: params.AccountNumber,
		BankName:      params.BankName,
		Country:       params.Country,
		Currency:      params.Currency,
	}

	if err := s.repo.CreateBeneficiary(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Beneficiary, error) {
	return s.repo.GetBeneficiary(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Beneficiary, error) {
	return s.repo.ListBeneficiaries(ctx)
}

// ImportBatch stores a parsed roster, skipping rows whose account number is
// already saved and rows too incomplete to route a transfer with.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (imported, skipped int, err error) {
	for _, p := range params {
		if p.Name == "" || p.AccountNumber == "" || p.Country == "" {
			skipped++
			continue
		}

		exists, err := s.repo.ExistsByAccountNumber(ctx, p.AccountNumber)
		if err != nil {
			return imported, skipped, fmt.Errorf("checking duplicate %s: %w", p.AccountNumber, err)
		}

		if exists {
			skipped++
			continue
		}

		if _, err := s.Create(ctx, p); err != nil {
			return imported, skipped, err
		}

		imported++
	}

	return imported, skipped, nil
}

// Snapshot copies a saved beneficiary into the immutable recipient form that
// transfer creation embeds.
func (b *Beneficiary) Snapshot() transfer.Recipient {
	return transfer.Recipient{
		Name:          b.Name,
		AccountNumber: b.AccountNumber,
		BankName:      b.BankName,
		Country:       b.Country,
		Currency:      b.Currency,
	}
}
