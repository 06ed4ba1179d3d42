package view

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/avelines/remit/internal/beneficiary"
	"github.com/avelines/remit/internal/transfer"
)

// operatorAccountID is the demo account the console sends from. Account
// ownership lives outside this service.
var operatorAccountID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// SendModel collects a transfer intent and submits it to the lifecycle
// engine, starting its advance chain.
type SendModel struct {
	CommonModel
	txService  *transfer.Service
	benService *beneficiary.Service
	chains     Chains
	chainCtx   context.Context

	form          *huh.Form
	beneficiaries []*beneficiary.Beneficiary

	// Form bindings.
	formBeneficiary string
	formAmount      string
	formPurpose     string
	formSpeed       string

	status string
	err    error
}

type sendLoadMsg struct {
	beneficiaries []*beneficiary.Beneficiary
	err           error
}

type sendResultMsg struct {
	t   *transfer.Transfer
	err error
}

func NewSendModel(
	txSvc *transfer.Service,
	benSvc *beneficiary.Service,
	chains Chains,
	chainCtx context.Context,
) SendModel {
	return SendModel{
		txService:  txSvc,
		benService: benSvc,
		chains:     chains,
		chainCtx:   chainCtx,
	}
}

func (m SendModel) Title() string     { return "Send Transfer" }
func (m SendModel) ShortHelp() string { return "Navigate form | Esc: back" }

func (m SendModel) Init() tea.Cmd {
	return m.loadBeneficiariesCmd()
}

func (m SendModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sendLoadMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.beneficiaries = msg.beneficiaries
		m.form = m.buildForm()

		return m, m.form.Init()

	case sendResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		m.status = fmt.Sprintf("Transfer %s submitted", msg.t.ID)

		return m, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, Back
		}
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		submit := m.submitCmd()
		m.form = nil

		return m, submit
	}

	return m, cmd
}

func (m SendModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	if m.form != nil {
		return m.form.View()
	}

	if m.status != "" {
		return m.status + "\n\nEsc: back"
	}

	return "Loading beneficiaries..."
}

func (m SendModel) buildForm() *huh.Form {
	options := make([]huh.Option[string], len(m.beneficiaries))
	for i, b := range m.beneficiaries {
		options[i] = huh.NewOption(fmt.Sprintf("%s (%s)", b.Name, b.Country), b.ID.String())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Beneficiary").
				Options(options...).
				Value(&m.formBeneficiary),
			huh.NewInput().
				Title("Amount").
				Placeholder("500.00").
				Value(&m.formAmount).
				Validate(validateAmount),
			huh.NewInput().
				Title("Purpose").
				Value(&m.formPurpose),
			huh.NewSelect[string]().
				Title("Delivery").
				Options(
					huh.NewOption("Standard (1-3 business days)", string(transfer.SpeedStandard)),
					huh.NewOption("Express (same day)", string(transfer.SpeedExpress)),
				).
				Value(&m.formSpeed),
		),
	)
}

func validateAmount(s string) error {
	_, err := ParseAmount(s)
	return err
}

func (m SendModel) submitCmd() tea.Cmd {
	benID := m.formBeneficiary
	amount := m.formAmount
	purpose := m.formPurpose
	speed := transfer.DeliverySpeed(m.formSpeed)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var picked *beneficiary.Beneficiary

		for _, b := range m.beneficiaries {
			if b.ID.String() == benID {
				picked = b
				break
			}
		}

		if picked == nil {
			return sendResultMsg{err: fmt.Errorf("no beneficiary selected")}
		}

		minor, err := ParseAmount(amount)
		if err != nil {
			return sendResultMsg{err: fmt.Errorf("parse amount: %w", err)}
		}

		t, err := m.txService.Create(ctx, transfer.CreateParams{
			AccountID:       operatorAccountID,
			Recipient:       picked.Snapshot(),
			SendAmount:      minor,
			ReceiveCurrency: picked.Currency,
			ExchangeRate:    1,
			Purpose:         purpose,
			DeliverySpeed:   speed,
			Type:            transfer.TypeDebit,
		})
		if err != nil {
			return sendResultMsg{err: err}
		}

		m.chains.Start(m.chainCtx, t)

		return sendResultMsg{t: t}
	}
}

func (m SendModel) loadBeneficiariesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bs, err := m.benService.List(ctx)

		return sendLoadMsg{beneficiaries: bs, err: err}
	}
}
