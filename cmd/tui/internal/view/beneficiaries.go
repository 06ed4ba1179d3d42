package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avelines/remit/internal/beneficiary"
)

// BeneficiaryModel browses the saved recipient roster.
type BeneficiaryModel struct {
	CommonModel
	benService *beneficiary.Service

	table   table.Model
	loading bool
	err     error
}

type beneficiaryLoadMsg struct {
	bs  []*beneficiary.Beneficiary
	err error
}

func NewBeneficiaryModel(benSvc *beneficiary.Service) BeneficiaryModel {
	columns := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Account", Width: 28},
		{Title: "Bank", Width: 18},
		{Title: "Country", Width: 8},
		{Title: "Currency", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BeneficiaryModel{
		benService: benSvc,
		table:      t,
		loading:    true,
	}
}

func (m BeneficiaryModel) Title() string     { return "Beneficiaries" }
func (m BeneficiaryModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m BeneficiaryModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BeneficiaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case beneficiaryLoadMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		rows := make([]table.Row, len(msg.bs))
		for i, b := range msg.bs {
			rows[i] = table.Row{b.Name, b.AccountNumber, b.BankName, b.Country, b.Currency}
		}

		m.table.SetRows(rows)

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BeneficiaryModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	if m.loading {
		return "Loading beneficiaries..."
	}

	return m.table.View()
}

func (m BeneficiaryModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bs, err := m.benService.List(ctx)

		return beneficiaryLoadMsg{bs: bs, err: err}
	}
}
