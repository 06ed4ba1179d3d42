package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/avelines/remit/internal/transfer"
)

// Chains is the scheduler surface the console needs to resume a transfer
// after a manual clearance decision.
type Chains interface {
	Start(ctx context.Context, t *transfer.Transfer)
	Stop(id uuid.UUID)
}

type boardState int

const (
	boardStateBrowse boardState = iota
	boardStateWatch
)

var (
	stepDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stepCurrentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	stepPendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	rejectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	watchFrameStyle  = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(1, 2)
)

// BoardModel is the transfer board: a table of transfers, and a live
// progress timeline for the selected one.
type BoardModel struct {
	CommonModel
	txService *transfer.Service
	chains    Chains
	chainCtx  context.Context

	state   boardState
	table   table.Model
	spin    spinner.Model
	ts      []*transfer.Transfer
	watched *transfer.Transfer

	loading bool
	status  string
	err     error
}

type boardLoadMsg struct {
	ts  []*transfer.Transfer
	err error
}

type watchLoadMsg struct {
	t   *transfer.Transfer
	err error
}

type watchTickMsg struct{}

type boardActionMsg struct {
	err error
}

func NewBoardModel(txSvc *transfer.Service, chains Chains, chainCtx context.Context) BoardModel {
	columns := []table.Column{
		{Title: "Created", Width: 10},
		{Title: "Recipient", Width: 24},
		{Title: "Amount", Width: 14},
		{Title: "Status", Width: 22},
		{Title: "Flagged", Width: 8},
		{Title: "Reviewed", Width: 8},
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

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return BoardModel{
		txService: txSvc,
		chains:    chains,
		chainCtx:  chainCtx,
		table:     t,
		spin:      sp,
	}
}

func (m BoardModel) Title() string { return "Transfer Board" }

func (m BoardModel) ShortHelp() string {
	if m.state == boardStateWatch {
		return "Esc: back | g: grant clearance | x: reject clearance | v: toggle reviewed"
	}

	return "Esc: back | Enter: watch | r: refresh"
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(m.loadBoardCmd(), m.spin.Tick)
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadMsg:
		m.loading = false

		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.ts = msg.ts
		m.err = nil
		m.refreshTable()

		return m, nil

	case watchLoadMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.watched = msg.t

		return m, nil

	case watchTickMsg:
		if m.state != boardStateWatch || m.watched == nil {
			return m, nil
		}

		return m, tea.Batch(m.watchLoadCmd(m.watched.ID), m.watchTickCmd())

	case boardActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = ""
		if m.watched != nil {
			return m, m.watchLoadCmd(m.watched.ID)
		}

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case boardStateBrowse:
		return m.updateBrowse(msg)
	case boardStateWatch:
		return m.updateWatch(msg)
	}

	return m, nil
}

func (m BoardModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		m.loading = true
		return m, m.loadBoardCmd()
	case "enter":
		idx := m.table.Cursor()
		if idx < 0 || idx >= len(m.ts) {
			return m, nil
		}

		m.state = boardStateWatch
		m.watched = m.ts[idx]

		return m, tea.Batch(m.watchLoadCmd(m.watched.ID), m.watchTickCmd())
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BoardModel) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.state = boardStateBrowse
		m.watched = nil
		m.status = ""

		return m, m.loadBoardCmd()
	case "g":
		if m.watched != nil {
			return m, m.grantCmd(m.watched.ID)
		}
	case "x":
		if m.watched != nil {
			return m, m.rejectCmd(m.watched.ID)
		}
	case "v":
		if m.watched != nil {
			return m, m.toggleReviewedCmd(m.watched)
		}
	}

	return m, nil
}

func (m BoardModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	if m.state == boardStateWatch && m.watched != nil {
		return m.watchView()
	}

	if m.loading {
		return m.spin.View() + " Loading transfers..."
	}

	view := m.table.View()
	if m.status != "" {
		view += "\n" + m.status
	}

	return view
}

// watchView renders the live progress timeline: one line per expected step,
// with the recorded first-entry timestamp for every step already reached.
func (m BoardModel) watchView() string {
	t := m.watched

	var b strings.Builder

	fmt.Fprintf(&b, "%s → %s\n", FormatAmount(t.SendAmount, ""), t.Recipient.Name)
	fmt.Fprintf(&b, "ETA %s\n\n", t.EstimatedArrival.Local().Format("Mon 15:04"))

	for _, step := range transfer.Path(t) {
		at, reached := t.EnteredAt(step)

		switch {
		case step == transfer.StatusRejected && reached:
			fmt.Fprintf(&b, "%s  %s\n", rejectedStyle.Render("✗ "+StatusLabel(step)), FormatClock(at))
		case reached && step == t.Status && !t.Status.Terminal():
			fmt.Fprintf(&b, "%s  %s %s\n", stepCurrentStyle.Render("● "+StatusLabel(step)), FormatClock(at), m.spin.View())
		case reached:
			fmt.Fprintf(&b, "%s  %s\n", stepDoneStyle.Render("✓ "+StatusLabel(step)), FormatClock(at))
		default:
			fmt.Fprintf(&b, "%s\n", stepPendingStyle.Render("○ "+StatusLabel(step)))
		}
	}

	if t.RequiresAuth {
		b.WriteString("\nFlagged for compliance review")

		if t.Reviewed {
			b.WriteString(" (reviewed)")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status)
	}

	return watchFrameStyle.Render(b.String())
}

func (m *BoardModel) refreshTable() {
	rows := make([]table.Row, len(m.ts))

	for i, t := range m.ts {
		flagged := ""
		if t.RequiresAuth {
			flagged = "yes"
		}

		reviewed := ""
		if t.Reviewed {
			reviewed = "yes"
		}

		rows[i] = table.Row{
			t.CreatedAt.Local().Format("01-02 15:04"),
			t.Recipient.Name,
			FormatAmount(t.SendAmount, ""),
			StatusLabel(t.Status),
			flagged,
			reviewed,
		}
	}

	m.table.SetRows(rows)
}

func (m BoardModel) loadBoardCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ts, err := m.txService.List(ctx, transfer.ListFilter{})

		return boardLoadMsg{ts: ts, err: err}
	}
}

func (m BoardModel) watchLoadCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		t, err := m.txService.Get(ctx, id)

		return watchLoadMsg{t: t, err: err}
	}
}

func (m BoardModel) watchTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return watchTickMsg{}
	})
}

func (m BoardModel) grantCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		t, err := m.txService.GrantClearance(ctx, id)
		if err != nil {
			return boardActionMsg{err: err}
		}

		m.chains.Start(m.chainCtx, t)

		return boardActionMsg{}
	}
}

func (m BoardModel) rejectCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		t, err := m.txService.RejectClearance(ctx, id)
		if err != nil {
			return boardActionMsg{err: err}
		}

		m.chains.Stop(t.ID)

		return boardActionMsg{}
	}
}

func (m BoardModel) toggleReviewedCmd(t *transfer.Transfer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return boardActionMsg{err: m.txService.MarkReviewed(ctx, t.ID, !t.Reviewed)}
	}
}
