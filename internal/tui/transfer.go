package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/pkg/client"
	"github.com/tellerbank/teller/pkg/domain"
)

type transferField int

const (
	tfRecipient transferField = iota
	tfAmount
	tfPin
	tfDescription
	tfNumFields
)

// transferDoneMsg carries the result of a transfer submission. The app
// refreshes the dashboard on success.
type transferDoneMsg struct {
	tx  *domain.Transaction
	err error
}

type transferModel struct {
	api        *client.Client
	fields     [tfNumFields]string
	focus      transferField
	submitting bool
	statusMsg  string
	okMsg      string
}

func newTransferModel(api *client.Client) transferModel {
	return transferModel{api: api}
}

func (m transferModel) Init() tea.Cmd {
	return nil
}

func (m transferModel) Update(msg tea.Msg) (transferModel, tea.Cmd) {
	switch msg := msg.(type) {
	case transferDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
		} else {
			m.okMsg = "transfer completed"
			if msg.tx != nil && msg.tx.Status == domain.TxPending {
				m.okMsg = "transfer submitted, pending settlement"
			}
			m.fields = [tfNumFields]string{}
			m.focus = tfRecipient
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.statusMsg = ""
		m.okMsg = ""
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "tab", "down":
			m.focus = (m.focus + 1) % tfNumFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + tfNumFields) % tfNumFields
		case "enter":
			if m.focus == tfDescription {
				return m.submit()
			}
			m.focus++
		default:
			switch m.focus {
			case tfPin:
				m.fields[tfPin] = editDigits(m.fields[tfPin], msg.String(), 4)
			case tfAmount:
				m.fields[tfAmount] = editAmount(m.fields[tfAmount], msg.String())
			default:
				m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
			}
		}
	}
	return m, nil
}

// editAmount is digit editing plus a single decimal point.
func editAmount(text, key string) string {
	if key == "." && !strings.Contains(text, ".") {
		return text + "."
	}
	return editDigits(text, key, 12)
}

func (m transferModel) submit() (transferModel, tea.Cmd) {
	recipient := strings.TrimSpace(m.fields[tfRecipient])
	pin := m.fields[tfPin]

	if recipient == "" || m.fields[tfAmount] == "" || pin == "" {
		m.statusMsg = "please fill in all required fields"
		return m, nil
	}
	amount, err := strconv.ParseFloat(m.fields[tfAmount], 64)
	if err != nil || amount <= 0 {
		m.statusMsg = "please enter a valid amount"
		return m, nil
	}
	if len(pin) != 4 {
		m.statusMsg = "PIN must be a 4-digit number"
		return m, nil
	}

	m.submitting = true
	req := client.TransferRequest{
		RecipientAccount: recipient,
		Amount:           amount,
		Pin:              pin,
		Description:      strings.TrimSpace(m.fields[tfDescription]),
	}
	api := m.api
	return m, func() tea.Msg {
		tx, err := api.Transfer(context.Background(), req)
		return transferDoneMsg{tx: tx, err: err}
	}
}

func (m transferModel) View() string {
	var b strings.Builder

	b.WriteString("  " + selectedStyle.Render("Transfer Money") + "\n\n")

	labels := [tfNumFields]string{"recipient account", "amount", "pin", "description (optional)"}
	for i := transferField(0); i < tfNumFields; i++ {
		value := m.fields[i]
		if i == tfAmount && value != "" {
			value = "$" + value
		}
		b.WriteString("  " + renderFormField(labels[i], value, i == m.focus, i == tfPin) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("processing..."))
	case m.statusMsg != "":
		b.WriteString("  " + errStyle.Render(m.statusMsg))
	case m.okMsg != "":
		b.WriteString("  " + okStyle.Render(m.okMsg))
	default:
		b.WriteString("  " + metaStyle.Render("funds move immediately; double-check the recipient account"))
	}

	return b.String()
}
