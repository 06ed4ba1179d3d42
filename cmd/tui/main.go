package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/avelines/remit/cmd/tui/internal/view"
	"github.com/avelines/remit/internal/beneficiary"
	beneficiaryStore "github.com/avelines/remit/internal/beneficiary/store"
	"github.com/avelines/remit/internal/config"
	"github.com/avelines/remit/internal/database"
	"github.com/avelines/remit/internal/notification"
	"github.com/avelines/remit/internal/risk"
	"github.com/avelines/remit/internal/scheduler"
	"github.com/avelines/remit/internal/transfer"
	transferStore "github.com/avelines/remit/internal/transfer/store"
)

type model struct {
	txService  *transfer.Service
	benService *beneficiary.Service
	runner     *scheduler.Runner
	chainCtx   context.Context

	currentView View

	boardView view.BoardModel
	sendView  view.SendModel
	benView   view.BeneficiaryModel
}

type View int

const (
	ViewMenu  View = 0
	ViewBoard View = 1
	ViewSend  View = 2
	ViewBens  View = 3
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("57"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func initialModel() (model, func()) {
	_ = godotenv.Load()

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

	var policy transfer.ClearancePolicy = transfer.AutoGrant{}
	if cfg.Engine.ClearanceMode == "manual" {
		policy = transfer.ManualReview{}
	}

	flagRule := risk.New(cfg.Risk.FlagThreshold, cfg.Risk.Jurisdictions)
	factory := transfer.NewFactory(flagRule, transfer.Windows{
		Standard: cfg.Engine.StandardWindow,
		Express:  cfg.Engine.ExpressWindow,
	})

	txSvc := transfer.NewService(transferStore.New(db), factory, policy)
	benSvc := beneficiary.NewService(beneficiaryStore.New(db))
	notifier := notification.NewLogSender(slog.Default())

	chainCtx, cancelChains := context.WithCancel(context.Background())

	runner := scheduler.New(txSvc, scheduler.Options{
		DefaultWait: cfg.Engine.StepDelay,
		Jitter:      cfg.Engine.Jitter,
		OnTerminal: func(t *transfer.Transfer) {
			_ = notifier.Send(chainCtx, t)
		},
	})

	cleanup := func() {
		cancelChains()
		runner.Shutdown()
		db.Close()
	}

	return model{
		txService:   txSvc,
		benService:  benSvc,
		runner:      runner,
		chainCtx:    chainCtx,
		currentView: ViewMenu,
		boardView:   view.NewBoardModel(txSvc, runner, chainCtx),
		sendView:    view.NewSendModel(txSvc, benSvc, runner, chainCtx),
		benView:     view.NewBeneficiaryModel(benSvc),
	}, cleanup
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBoard
				m.boardView = view.NewBoardModel(m.txService, m.runner, m.chainCtx)

				return m, m.boardView.Init()
			case "2":
				m.currentView = ViewSend
				m.sendView = view.NewSendModel(m.txService, m.benService, m.runner, m.chainCtx)

				return m, m.sendView.Init()
			case "3":
				m.currentView = ViewBens
				m.benView = view.NewBeneficiaryModel(m.benService)

				return m, m.benView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewBoard:
		var updated tea.Model
		updated, cmd = m.boardView.Update(msg)
		m.boardView = updated.(view.BoardModel)
	case ViewSend:
		var updated tea.Model
		updated, cmd = m.sendView.Update(msg)
		m.sendView = updated.(view.SendModel)
	case ViewBens:
		var updated tea.Model
		updated, cmd = m.benView.Update(msg)
		m.benView = updated.(view.BeneficiaryModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewBoard:
		return m.renderView(m.boardView)
	case ViewSend:
		return m.renderView(m.sendView)
	case ViewBens:
		return m.renderView(m.benView)
	}

	return titleStyle.Render("remit console") + "\n\n" +
		"  1. Transfer board\n" +
		"  2. Send transfer\n" +
		"  3. Beneficiaries\n\n" +
		helpStyle.Render("q: quit")
}

func (m model) renderView(v view.View) string {
	return titleStyle.Render(v.Title()) + "\n\n" +
		v.View() + "\n\n" +
		helpStyle.Render(v.ShortHelp())
}

func main() {
	m, cleanup := initialModel()
	defer cleanup()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
