package beneficiary

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avelines/remit/internal/beneficiary"
	"github.com/avelines/remit/internal/importer"
)

type Handler struct {
	svc       *beneficiary.Service
	importSvc *importer.Service
}

func NewHandler(svc *beneficiary.Service, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/import", h.importCSV)
}

type beneficiaryResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	BankName      string    `json:"bank_name,omitempty"`
	Country       string    `json:"country"`
	Currency      string    `json:"currency,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(b *beneficiary.Beneficiary) beneficiaryResponse {
	return beneficiaryResponse{
		ID:            b.ID,
		Name:          b.Name,
		AccountNumber: b.AccountNumber,
		BankName:      b.BankName,
		Country:       b.Country,
		Currency:      b.Currency,
		CreatedAt:     b.CreatedAt,
	}
}

type createBeneficiaryRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
	Country       string `json:"country"`
	Currency      string `json:"currency"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.Create(r.Context(), beneficiary.CreateParams{
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Country:       req.Country,
		Currency:      req.Currency,
	})
	if err != nil {
		if errors.Is(err, beneficiary.ErrIncomplete) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	bs, err := h.svc.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]beneficiaryResponse, len(bs))
	for i, b := range bs {
		resp[i] = toResponse(b)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, beneficiary.ErrNotFound) {
			http.Error(w, "beneficiary not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// importCSV ingests a roster file posted as the request body.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	source := importer.Source(r.URL.Query().Get("source"))
	if source == "" {
		source = importer.SourcePortal
	}

	params, err := h.importSvc.Import(source, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	imported, skipped, err := h.svc.ImportBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(importResponse{Imported: imported, Skipped: skipped}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
