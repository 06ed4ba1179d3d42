package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avelines/remit/internal/auth"
	beneficiaryHandler "github.com/avelines/remit/internal/http/beneficiary"
	transferHandler "github.com/avelines/remit/internal/http/transfer"
)

func New(
	tokens *auth.Tokens,
	tokenV1 *TokenHandler,
	transfersV1 *transferHandler.Handler,
	beneficiariesV1 *beneficiaryHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	router.Post("/auth/token", tokenV1.issue)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(tokens.Middleware)

		r.Route("/transfers", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transfersV1.Routes(r)
		})

		r.Route("/beneficiaries", func(r chi.Router) {
			beneficiariesV1.Routes(r)
		})
	})

	return router
}
