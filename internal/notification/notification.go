// Package notification carries the confirmation contract fired when a
// transfer settles. The real product sends SMS/email; this service ships a
// log-backed sender and leaves the delivery channel pluggable.
package notification

import (
	"context"
	"log/slog"

	"github.com/avelines/remit/internal/transfer"
)

type Sender interface {
	Send(ctx context.Context, t *transfer.Transfer) error
}

// LogSender announces settled transfers on the service log.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}

	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, t *transfer.Transfer) error {
	arrived, _ := t.EnteredAt(transfer.StatusFundsArrived)

	s.log.Info("funds arrived",
		"transfer_id", t.ID,
		"account_id", t.AccountID,
		"recipient", t.Recipient.Name,
		"receive_amount", t.ReceiveAmount,
		"receive_currency", t.ReceiveCurrency,
		"arrived_at", arrived,
	)

	return nil
}
