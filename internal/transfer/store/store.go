package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelines/remit/internal/transfer"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransferColumns = `
	t.id, t.account_id, t.recipient_name, t.recipient_account_number,
	t.recipient_bank_name, t.recipient_country, t.recipient_currency,
	t.send_amount, t.receive_amount, t.receive_currency, t.fee, t.exchange_rate,
	t.purpose, t.delivery_speed, t.type, t.status, t.estimated_arrival,
	t.requires_auth, t.reviewed, t.created_at, t.updated_at
`

// scanTransfer reads a transfer row in the selectTransferColumns order. The
// status timestamp map is loaded separately from transfer_status_events.
func scanTransfer(s scanner) (*transfer.Transfer, error) {
	var t transfer.Transfer

	var typeStr, statusStr, speedStr string

	var purpose sql.NullString

	if err := s.Scan(
		&t.ID, &t.AccountID, &t.Recipient.Name, &t.Recipient.AccountNumber,
		&t.Recipient.BankName, &t.Recipient.Country, &t.Recipient.Currency,
		&t.SendAmount, &t.ReceiveAmount, &t.ReceiveCurrency, &t.Fee, &t.ExchangeRate,
		&purpose, &speedStr, &typeStr, &statusStr, &t.EstimatedArrival,
		&t.RequiresAuth, &t.Reviewed, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Purpose = purpose.String
	t.DeliverySpeed = transfer.DeliverySpeed(speedStr)
	t.Type = transfer.Type(typeStr)
	t.Status = transfer.Status(statusStr)
	t.StatusTimestamps = make(map[transfer.Status]time.Time)

	return &t, nil
}

func (s *Store) CreateTransfer(ctx context.Context, t *transfer.Transfer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning create: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO transfers (
			id, account_id, recipient_name, recipient_account_number,
			recipient_bank_name, recipient_country, recipient_currency,
			send_amount, receive_amount, receive_currency, fee, exchange_rate,
			purpose, delivery_speed, type, status, estimated_arrival,
			requires_auth, reviewed, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW())
	`

	if _, err := tx.ExecContext(ctx, query,
		t.ID, t.AccountID, t.Recipient.Name, t.Recipient.AccountNumber,
		t.Recipient.BankName, t.Recipient.Country, t.Recipient.Currency,
		t.SendAmount, t.ReceiveAmount, t.ReceiveCurrency, t.Fee, t.ExchangeRate,
		t.Purpose, t.DeliverySpeed, t.Type, t.Status, t.EstimatedArrival,
		t.RequiresAuth, t.Reviewed, t.CreatedAt,
	); err != nil {
		return fmt.Errorf("creating transfer: %w", err)
	}

	if err := insertStatusEvents(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing create: %w", err)
	}

	return nil
}

func (s *Store) GetTransfer(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	query := `SELECT ` + selectTransferColumns + `
		FROM transfers t
		WHERE t.id = $1`

	t, err := scanTransfer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, transfer.ErrNotFound
		}

		return nil, fmt.Errorf("getting transfer: %w", err)
	}

	if err := s.loadStatusEvents(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Store) ListTransfers(ctx context.Context, filter transfer.ListFilter) ([]*transfer.Transfer, error) {
	query := `SELECT ` + selectTransferColumns + `
		FROM transfers t
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND t.account_id = $%d", argIdx)
		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var out []*transfer.Transfer

	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transfers: %w", err)
	}

	for _, t := range out {
		if err := s.loadStatusEvents(ctx, t); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// AdvanceTransfer persists a status move. The event insert uses ON CONFLICT
// DO NOTHING so a replayed advance never overwrites the first-entry
// timestamp of a status.
func (s *Store) AdvanceTransfer(ctx context.Context, t *transfer.Transfer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning advance: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE transfers SET status = $2, updated_at = NOW() WHERE id = $1`,
		t.ID, t.Status,
	)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transfer.ErrNotFound
	}

	if err := insertStatusEvents(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing advance: %w", err)
	}

	return nil
}

func (s *Store) SetReviewed(ctx context.Context, id uuid.UUID, reviewed bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transfers SET reviewed = $2, updated_at = NOW() WHERE id = $1`,
		id, reviewed,
	)
	if err != nil {
		return fmt.Errorf("setting reviewed: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return transfer.ErrNotFound
	}

	return nil
}

func insertStatusEvents(ctx context.Context, tx *sql.Tx, t *transfer.Transfer) error {
	query := `
		INSERT INTO transfer_status_events (transfer_id, status, recorded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (transfer_id, status) DO NOTHING
	`

	for status, at := range t.StatusTimestamps {
		if _, err := tx.ExecContext(ctx, query, t.ID, status, at); err != nil {
			return fmt.Errorf("recording status event %s: %w", status, err)
		}
	}

	return nil
}

func (s *Store) loadStatusEvents(ctx context.Context, t *transfer.Transfer) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, recorded_at FROM transfer_status_events WHERE transfer_id = $1`,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("loading status events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var statusStr string

		var at time.Time

		if err := rows.Scan(&statusStr, &at); err != nil {
			return fmt.Errorf("scanning status event: %w", err)
		}

		t.StatusTimestamps[transfer.Status(statusStr)] = at
	}

	return rows.Err()
}
