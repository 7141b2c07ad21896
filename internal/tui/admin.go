package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/pkg/client"
	"github.com/tellerbank/teller/pkg/domain"
)

// adminState is the state machine for the admin panel.
type adminState int

const (
	adNormal    adminState = iota
	adSearching            // typing in the user search box
	adCrediting            // entering a credit amount for the selected user
)

type adminUsersMsg struct {
	users []domain.User
	err   error
}

type adminCreditedMsg struct {
	account string
	err     error
}

// adminModel is the admin panel: user table with search and balance credit.
// Only rendered when the signed-in identity has the admin role.
type adminModel struct {
	api       *client.Client
	users     []domain.User
	loading   bool
	statusMsg string
	okMsg     string
	search    string
	state     adminState
	cursor    int
	amount    string
}

func newAdminModel(api *client.Client) adminModel {
	return adminModel{api: api, loading: true}
}

func (m adminModel) Init() tea.Cmd {
	return m.load()
}

func (m adminModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		users, err := api.AdminUsers(context.Background())
		return adminUsersMsg{users: users, err: err}
	}
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	switch msg := msg.(type) {
	case adminUsersMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
		} else {
			m.users = msg.users
			if m.cursor >= len(m.users) {
				m.cursor = 0
			}
		}
		return m, nil

	case adminCreditedMsg:
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
			return m, nil
		}
		m.okMsg = "credited " + msg.account
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		switch m.state {
		case adSearching:
			switch msg.String() {
			case "enter", "esc":
				m.state = adNormal
			default:
				m.search = editRune(m.search, msg.String())
				m.cursor = 0
			}
			return m, nil

		case adCrediting:
			switch msg.String() {
			case "esc":
				m.state = adNormal
				m.amount = ""
			case "enter":
				return m.submitCredit()
			default:
				m.amount = editAmount(m.amount, msg.String())
			}
			return m, nil
		}

		// adNormal
		m.okMsg = ""
		switch msg.String() {
		case "/":
			m.state = adSearching
			m.search = ""
			m.cursor = 0
		case "j", "down":
			if m.cursor < len(m.filtered())-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "a":
			if len(m.filtered()) > 0 {
				m.state = adCrediting
				m.amount = ""
				m.statusMsg = ""
			}
		case "r":
			m.loading = true
			m.statusMsg = ""
			return m, m.load()
		}
	}
	return m, nil
}

// filtered matches the search term against name, email and account number.
func (m adminModel) filtered() []domain.User {
	term := strings.ToLower(strings.TrimSpace(m.search))
	if term == "" {
		return m.users
	}
	var out []domain.User
	for _, u := range m.users {
		hay := strings.ToLower(u.FullName() + " " + u.Email + " " + u.AccountNumber)
		if strings.Contains(hay, term) {
			out = append(out, u)
		}
	}
	return out
}

func (m adminModel) submitCredit() (adminModel, tea.Cmd) {
	users := m.filtered()
	if m.cursor >= len(users) {
		m.state = adNormal
		return m, nil
	}
	amount, err := strconv.ParseFloat(m.amount, 64)
	if err != nil || amount <= 0 {
		m.statusMsg = "please enter a valid amount"
		return m, nil
	}

	target := users[m.cursor].AccountNumber
	m.state = adNormal
	m.amount = ""
	api := m.api
	return m, func() tea.Msg {
		err := api.AdminAddBalance(context.Background(), target, amount)
		return adminCreditedMsg{account: target, err: err}
	}
}

func (m adminModel) View() string {
	var b strings.Builder

	b.WriteString("  " + selectedStyle.Render("Admin · Users"))
	if m.state == adSearching {
		b.WriteString("   " + accentStyle.Render("/"+m.search+"█"))
	} else if m.search != "" {
		b.WriteString("   " + metaStyle.Render("/"+m.search))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("  " + dimStyle.Render("loading users...") + "\n")
		return b.String()
	}

	users := m.filtered()
	if len(users) == 0 {
		b.WriteString("  " + dimStyle.Render("no users match") + "\n")
		return b.String()
	}

	for i, u := range users {
		cursor := " "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = ">"
			nameStyle = selectedStyle
		}
		status := u.Status
		if status == "" {
			status = "active"
		}
		fmt.Fprintf(&b, "  %s %s  %s  %s  %s  %s\n",
			cursor,
			nameStyle.Render(fmt.Sprintf("%-24s", truncStr(u.FullName(), 24))),
			metaStyle.Render(fmt.Sprintf("%-28s", truncStr(u.Email, 28))),
			dimStyle.Render(domain.MaskAccountNumber(u.AccountNumber)),
			balanceStyle.Render(fmt.Sprintf("%12s", formatMoney(u.Balance))),
			TxStatusStyle(statusColorKey(status)).Render(status))
	}

	b.WriteString("\n")
	switch {
	case m.state == adCrediting:
		b.WriteString("  " + inputPromptStyle.Render("credit amount: ") + "$" + m.amount + "█")
	case m.statusMsg != "":
		b.WriteString("  " + errStyle.Render(m.statusMsg))
	case m.okMsg != "":
		b.WriteString("  " + okStyle.Render(m.okMsg))
	}

	return b.String()
}

// statusColorKey maps user status onto the transaction status palette.
func statusColorKey(status string) string {
	switch status {
	case "active":
		return domain.TxCompleted
	case "inactive":
		return domain.TxPending
	default:
		return domain.TxFailed
	}
}
