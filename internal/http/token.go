package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/avelines/remit/internal/auth"
)

// TokenHandler mints development tokens for the API. A real deployment
// would delegate to the bank's identity provider.
type TokenHandler struct {
	tokens *auth.Tokens
}

func NewTokenHandler(tokens *auth.Tokens) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

type tokenRequest struct {
	Subject string `json:"subject"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *TokenHandler) issue(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Subject == "" {
		http.Error(w, "subject is required", http.StatusBadRequest)
		return
	}

	token, err := h.tokens.Issue(req.Subject)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(tokenResponse{Token: token}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
