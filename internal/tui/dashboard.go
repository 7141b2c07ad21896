package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/internal/session"
	"github.com/tellerbank/teller/pkg/client"
	"github.com/tellerbank/teller/pkg/domain"
)

// recentCount is how many transactions the dashboard shows.
const recentCount = 5

type balanceLoadedMsg struct {
	balance float64
	err     error
}

type recentTxsMsg struct {
	txs []domain.Transaction
	err error
}

type accountCopiedMsg struct{ err error }

type dashboardModel struct {
	ctrl          *session.Controller
	api           *client.Client
	balance       float64
	balanceLoaded bool
	txs           []domain.Transaction
	loading       bool
	statusMsg     string
	width         int
	height        int
}

func newDashboardModel(ctrl *session.Controller, api *client.Client) dashboardModel {
	return dashboardModel{ctrl: ctrl, api: api, loading: true}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadBalance(), m.loadRecent())
}

func (m dashboardModel) loadBalance() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		bal, err := api.Balance(context.Background())
		return balanceLoadedMsg{balance: bal, err: err}
	}
}

func (m dashboardModel) loadRecent() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		txs, err := api.Transactions(context.Background())
		return recentTxsMsg{txs: txs, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case balanceLoadedMsg:
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
		} else {
			m.balance = msg.balance
			m.balanceLoaded = true
		}

	case recentTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
		} else {
			m.txs = msg.txs
			if len(m.txs) > recentCount {
				m.txs = m.txs[:recentCount]
			}
		}

	case accountCopiedMsg:
		if msg.err != nil {
			m.statusMsg = "copy failed"
		} else {
			m.statusMsg = "account number copied"
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.statusMsg = ""
			m.loading = true
			return m, tea.Batch(m.loadBalance(), m.loadRecent())
		case "c":
			snap := m.ctrl.Snapshot()
			if snap.Identity == nil || snap.Identity.AccountNumber == "" {
				return m, nil
			}
			acct := snap.Identity.AccountNumber
			return m, func() tea.Msg {
				return accountCopiedMsg{err: clipboard.WriteAll(acct)}
			}
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	snap := m.ctrl.Snapshot()

	if snap.Identity != nil {
		fmt.Fprintf(&b, "  %s\n\n", selectedStyle.Render("Welcome, "+snap.Identity.FirstName+"!"))
	} else {
		b.WriteString("\n")
	}

	// Balance card
	b.WriteString("  " + sectionHeaderStyle.Render("ACCOUNT BALANCE") + "\n")
	if m.balanceLoaded {
		b.WriteString("  " + balanceStyle.Render(formatMoney(m.balance)) + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	}
	if snap.Identity != nil && snap.Identity.AccountNumber != "" {
		b.WriteString("  " + metaStyle.Render(domain.MaskAccountNumber(snap.Identity.AccountNumber)+"  ·  "+snap.Identity.FullName()) + "\n")
	}
	b.WriteString("\n")

	// Recent activity
	b.WriteString("  " + sectionHeaderStyle.Render("RECENT ACTIVITY") + "\n")
	switch {
	case m.loading:
		b.WriteString("  " + dimStyle.Render("loading transactions...") + "\n")
	case len(m.txs) == 0:
		b.WriteString("  " + dimStyle.Render("no recent transactions") + "\n")
	default:
		for _, tx := range m.txs {
			b.WriteString("  " + renderTxRow(tx, m.width) + "\n")
		}
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString("  " + okStyle.Render(m.statusMsg) + "\n")
	}

	return b.String()
}

// renderTxRow renders one transaction line shared by dashboard and history.
func renderTxRow(tx domain.Transaction, width int) string {
	amount := formatMoney(tx.Amount)
	var amountStr string
	if tx.Incoming() {
		amountStr = creditStyle.Render(fmt.Sprintf("%12s", "+"+amount))
	} else {
		amountStr = debitStyle.Render(fmt.Sprintf("%12s", "-"+amount))
	}

	desc := tx.Description
	if desc == "" {
		switch {
		case tx.Recipient != "":
			desc = "to " + tx.Recipient
		case tx.Sender != "":
			desc = "from " + tx.Sender
		default:
			desc = tx.Type
		}
	}
	maxDesc := width - 44
	if maxDesc < 12 {
		maxDesc = 12
	}

	return fmt.Sprintf("%s  %s  %s  %s  %s",
		TxTypeStyle(tx.Type).Render(fmt.Sprintf("%-10s", tx.Type)),
		amountStr,
		normalStyle.Render(truncStr(desc, maxDesc)),
		TxStatusStyle(tx.Status).Render(tx.Status),
		metaStyle.Render(formatTime(tx.Date)))
}
