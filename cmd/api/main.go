package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avelines/remit/internal/auth"
	"github.com/avelines/remit/internal/beneficiary"
	beneficiaryStore "github.com/avelines/remit/internal/beneficiary/store"
	"github.com/avelines/remit/internal/config"
	"github.com/avelines/remit/internal/database"
	remitHttp "github.com/avelines/remit/internal/http"
	beneficiaryHandler "github.com/avelines/remit/internal/http/beneficiary"
	transferHandler "github.com/avelines/remit/internal/http/transfer"
	"github.com/avelines/remit/internal/importer"
	"github.com/avelines/remit/internal/notification"
	"github.com/avelines/remit/internal/risk"
	"github.com/avelines/remit/internal/scheduler"
	"github.com/avelines/remit/internal/transfer"
	transferStore "github.com/avelines/remit/internal/transfer/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var policy transfer.ClearancePolicy = transfer.AutoGrant{}
	if cfg.Engine.ClearanceMode == "manual" {
		policy = transfer.ManualReview{}
	}

	var (
		flagRule = risk.New(cfg.Risk.FlagThreshold, cfg.Risk.Jurisdictions)
		factory  = transfer.NewFactory(flagRule, transfer.Windows{
			Standard: cfg.Engine.StandardWindow,
			Express:  cfg.Engine.ExpressWindow,
		})
		transferService    = transfer.NewService(transferStore.New(db), factory, policy)
		beneficiaryService = beneficiary.NewService(beneficiaryStore.New(db))
		importService      = importer.NewService()
		notifier           = notification.NewLogSender(slog.Default())
	)

	chainCtx, cancelChains := context.WithCancel(context.Background())
	defer cancelChains()

	runner := scheduler.New(transferService, scheduler.Options{
		DefaultWait: cfg.Engine.StepDelay,
		Jitter:      cfg.Engine.Jitter,
		OnTerminal: func(t *transfer.Transfer) {
			if err := notifier.Send(chainCtx, t); err != nil {
				slog.Error("failed to send arrival notification", "transfer_id", t.ID, "error", err)
			}
		},
	})

	tokens := auth.New(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	var (
		tokenH       = remitHttp.NewTokenHandler(tokens)
		transferH    = transferHandler.NewHandler(transferService, runner, chainCtx)
		beneficiaryH = beneficiaryHandler.NewHandler(beneficiaryService, importService)
	)

	router := remitHttp.New(tokens, tokenH, transferH, beneficiaryH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "port", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	// Cancel pending advance chains before the store goes away.
	cancelChains()
	runner.Shutdown()
}
