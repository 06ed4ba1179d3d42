package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avelines/remit/internal/transfer"
)

// ChainRunner is the scheduler surface the handler needs: start (or resume)
// the advance chain for a transfer, and cancel a pending one.
type ChainRunner interface {
	Start(ctx context.Context, t *transfer.Transfer)
	Stop(id uuid.UUID)
}

type Handler struct {
	svc    *transfer.Service
	chains ChainRunner

	// chainCtx outlives individual requests; advance chains must not die
	// with the request that created them.
	chainCtx context.Context
}

func NewHandler(svc *transfer.Service, chains ChainRunner, chainCtx context.Context) *Handler {
	return &Handler{
		svc:      svc,
		chains:   chains,
		chainCtx: chainCtx,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/clearance", h.grantClearance)
	r.Delete("/{id}/clearance", h.rejectClearance)
	r.Patch("/{id}/review", h.review)
}

type createTransferRequest struct {
	AccountID       uuid.UUID              `json:"account_id"`
	Recipient       recipientRequest       `json:"recipient"`
	SendAmount      int64                  `json:"send_amount"`
	ReceiveCurrency string                 `json:"receive_currency"`
	Fee             int64                  `json:"fee"`
	ExchangeRate    float64                `json:"exchange_rate"`
	Purpose         string                 `json:"purpose"`
	DeliverySpeed   transfer.DeliverySpeed `json:"delivery_speed"`
	Type            transfer.Type          `json:"type"`
}

type recipientRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	Country       string `json:"country"`
	Currency      string `json:"currency"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	speed := req.DeliverySpeed
	if speed == "" {
		speed = transfer.SpeedStandard
	}

	kind := req.Type
	if kind == "" {
		kind = transfer.TypeDebit
	}

	t, err := h.svc.Create(r.Context(), transfer.CreateParams{
		AccountID: req.AccountID,
		Recipient: transfer.Recipient{
			Name:          req.Recipient.Name,
			AccountNumber: req.Recipient.AccountNumber,
			BankName:      req.Recipient.BankName,
			Country:       req.Recipient.Country,
			Currency:      req.Recipient.Currency,
		},
		SendAmount:      req.SendAmount,
		ReceiveCurrency: req.ReceiveCurrency,
		Fee:             req.Fee,
		ExchangeRate:    req.ExchangeRate,
		Purpose:         req.Purpose,
		DeliverySpeed:   speed,
		Type:            kind,
	})
	if err != nil {
		if errors.Is(err, transfer.ErrInvalidAmount) || errors.Is(err, transfer.ErrInvalidRecipient) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	h.chains.Start(h.chainCtx, t)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(t)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transfer.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(transfer.Status(s))
	}

	if s := r.URL.Query().Get("account_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid account_id", http.StatusBadRequest)
			return
		}

		filter.AccountID = new(id)
	}

	ts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(ts)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, transfer.ErrNotFound) {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(t)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// grantClearance is the reviewer action that releases a flagged transfer
// and resumes its advance chain.
func (h *Handler) grantClearance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.svc.GrantClearance(r.Context(), id)
	if err != nil {
		writeClearanceError(w, err)
		return
	}

	h.chains.Start(h.chainCtx, t)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(t)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) rejectClearance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, err := h.svc.RejectClearance(r.Context(), id)
	if err != nil {
		writeClearanceError(w, err)
		return
	}

	h.chains.Stop(t.ID)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(t)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type reviewRequest struct {
	Reviewed bool `json:"reviewed"`
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.MarkReviewed(r.Context(), id, req.Reviewed); err != nil {
		if errors.Is(err, transfer.ErrNotFound) {
			http.Error(w, "transfer not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeClearanceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transfer.ErrNotFound):
		http.Error(w, "transfer not found", http.StatusNotFound)
	case errors.Is(err, transfer.ErrInvalidStatus), errors.Is(err, transfer.ErrAlreadyTerminal):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
