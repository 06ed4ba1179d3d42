package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelines/remit/internal/beneficiary"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateBeneficiary(ctx context.Context, b *beneficiary.Beneficiary) error {
	query := `
		INSERT INTO beneficiaries (name, account_number, bank_name, country, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		b.Name, b.AccountNumber, b.BankName, b.Country, b.Currency,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating beneficiary: %w", err)
	}

	return nil
}

func (s *Store) GetBeneficiary(ctx context.Context, id uuid.UUID) (*beneficiary.Beneficiary, error) {
	query := `
		SELECT id, name, account_number, bank_name, country, currency, created_at
		FROM beneficiaries
		WHERE id = $1
	`

	var b beneficiary.Beneficiary

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.AccountNumber, &b.BankName, &b.Country, &b.Currency, &b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, beneficiary.ErrNotFound
		}

		return nil, fmt.Errorf("getting beneficiary: %w", err)
	}

	return &b, nil
}

func (s *Store) ListBeneficiaries(ctx context.Context) ([]*beneficiary.Beneficiary, error) {
	query := `
		SELECT id, name, account_number, bank_name, country, currency, created_at
		FROM beneficiaries
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing beneficiaries: %w", err)
	}
	defer rows.Close()

	var out []*beneficiary.Beneficiary

	for rows.Next() {
		var b beneficiary.Beneficiary

		if err := rows.Scan(
			&b.ID, &b.Name, &b.AccountNumber, &b.BankName, &b.Country, &b.Currency, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning beneficiary: %w", err)
		}

		out = append(out, &b)
	}

	return out, rows.Err()
}

func (s *Store) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM beneficiaries WHERE account_number = $1)`,
		accountNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking beneficiary: %w", err)
	}

	return exists, nil
}
