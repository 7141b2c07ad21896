package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/internal/session"
)

type pinField int

const (
	pinEnter pinField = iota
	pinConfirm
	pinNumFields
)

type pinSavedMsg struct{ err error }

// pinModel is the create/update PIN form, reached from the dashboard.
type pinModel struct {
	ctrl       *session.Controller
	fields     [pinNumFields]string
	focus      pinField
	submitting bool
	statusMsg  string
	okMsg      string
}

func newPinModel(ctrl *session.Controller) pinModel {
	return pinModel{ctrl: ctrl}
}

func (m pinModel) Init() tea.Cmd {
	return nil
}

func (m pinModel) Update(msg tea.Msg) (pinModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pinSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
		} else {
			m.okMsg = "PIN created. It authorizes transfers from your account."
			m.fields = [pinNumFields]string{}
			m.focus = pinEnter
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.statusMsg = ""
		m.okMsg = ""
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % pinNumFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + pinNumFields) % pinNumFields
		case "enter":
			if m.focus == pinConfirm {
				return m.submit()
			}
			m.focus++
		case "ctrl+s":
			return m.submit()
		default:
			m.fields[m.focus] = editDigits(m.fields[m.focus], msg.String(), 4)
		}
	}
	return m, nil
}

func (m pinModel) submit() (pinModel, tea.Cmd) {
	pin := m.fields[pinEnter]
	confirm := m.fields[pinConfirm]

	m.submitting = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return pinSavedMsg{err: ctrl.CreatePin(context.Background(), pin, confirm)}
	}
}

func (m pinModel) View() string {
	var b strings.Builder

	b.WriteString("  " + selectedStyle.Render("Create Your PIN") + "\n\n")
	b.WriteString("  " + dimStyle.Render("Your PIN authorizes transactions from your account.") + "\n")
	b.WriteString("  " + dimStyle.Render("Choose a 4-digit PIN you can remember.") + "\n\n")

	labels := [pinNumFields]string{"enter pin", "confirm pin"}
	for i := pinField(0); i < pinNumFields; i++ {
		b.WriteString("  " + renderFormField(labels[i], m.fields[i], i == m.focus, true) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("saving..."))
	case m.statusMsg != "":
		b.WriteString("  " + errStyle.Render(m.statusMsg))
	case m.okMsg != "":
		b.WriteString("  " + okStyle.Render(m.okMsg))
	}

	return b.String()
}
