package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelines/remit/internal/transfer"
)

type transferResponse struct {
	ID               uuid.UUID              `json:"id"`
	AccountID        uuid.UUID              `json:"account_id"`
	Recipient        recipientResponse      `json:"recipient"`
	SendAmount       int64                  `json:"send_amount"`
	ReceiveAmount    int64                  `json:"receive_amount"`
	ReceiveCurrency  string                 `json:"receive_currency"`
	Fee              int64                  `json:"fee"`
	ExchangeRate     float64                `json:"exchange_rate"`
	Purpose          string                 `json:"purpose,omitempty"`
	DeliverySpeed    transfer.DeliverySpeed `json:"delivery_speed"`
	Type             transfer.Type          `json:"type"`
	Status           transfer.Status        `json:"status"`
	StatusTimestamps map[string]time.Time   `json:"status_timestamps"`
	EstimatedArrival time.Time              `json:"estimated_arrival"`
	RequiresAuth     bool                   `json:"requires_auth"`
	Reviewed         bool                   `json:"reviewed"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        *time.Time             `json:"updated_at,omitempty"`
}

type recipientResponse struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name,omitempty"`
	Country       string `json:"country"`
	Currency      string `json:"currency,omitempty"`
}

func toResponse(t *transfer.Transfer) transferResponse {
	timestamps := make(map[string]time.Time, len(t.StatusTimestamps))
	for status, at := range t.StatusTimestamps {
		timestamps[string(status)] = at
	}

	return transferResponse{
		ID:        t.ID,
		AccountID: t.AccountID,
		Recipient: recipientResponse{
			Name:          t.Recipient.Name,
			AccountNumber: t.Recipient.AccountNumber,
			BankName:      t.Recipient.BankName,
			Country:       t.Recipient.Country,
			Currency:      t.Recipient.Currency,
		},
		SendAmount:       t.SendAmount,
		ReceiveAmount:    t.ReceiveAmount,
		ReceiveCurrency:  t.ReceiveCurrency,
		Fee:              t.Fee,
		ExchangeRate:     t.ExchangeRate,
		Purpose:          t.Purpose,
		DeliverySpeed:    t.DeliverySpeed,
		Type:             t.Type,
		Status:           t.Status,
		StatusTimestamps: timestamps,
		EstimatedArrival: t.EstimatedArrival,
		RequiresAuth:     t.RequiresAuth,
		Reviewed:         t.Reviewed,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func toResponseList(ts []*transfer.Transfer) []transferResponse {
	resp := make([]transferResponse, len(ts))
	for i, t := range ts {
		resp[i] = toResponse(t)
	}

	return resp
}
