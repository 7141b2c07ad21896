package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/internal/session"
)

type signinField int

const (
	siEmail signinField = iota
	siPassword
	siNumFields
)

// signedInMsg carries the result of a login attempt.
type signedInMsg struct{ err error }

type signinModel struct {
	ctrl       *session.Controller
	fields     [siNumFields]string
	focus      signinField
	submitting bool
	status     string // error text
	notice     string // informational banner (signed out, registered, expired)
}

func newSigninModel(ctrl *session.Controller) signinModel {
	return signinModel{ctrl: ctrl}
}

func (m signinModel) Init() tea.Cmd {
	return nil
}

func (m signinModel) Update(msg tea.Msg) (signinModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signedInMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errText(msg.err)
		} else {
			m.fields = [siNumFields]string{}
			m.focus = siEmail
			m.status = ""
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.status = ""
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % siNumFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + siNumFields) % siNumFields
		case "enter":
			if m.focus == siPassword {
				return m.submit()
			}
			m.focus++
		case "ctrl+s":
			return m.submit()
		default:
			m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
		}
	}
	return m, nil
}

func (m signinModel) submit() (signinModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[siEmail])
	password := m.fields[siPassword]

	m.submitting = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return signedInMsg{err: ctrl.Login(context.Background(), email, password)}
	}
}

func (m signinModel) View() string {
	var b strings.Builder

	b.WriteString("  " + selectedStyle.Render("Sign in to your account") + "\n\n")

	if m.notice != "" {
		b.WriteString("  " + warnStyle.Render(m.notice) + "\n\n")
	}

	labels := [siNumFields]string{"email", "password"}
	for i := signinField(0); i < siNumFields; i++ {
		b.WriteString("  " + renderFormField(labels[i], m.fields[i], i == m.focus, i == siPassword) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("signing in..."))
	case m.status != "":
		b.WriteString("  " + errStyle.Render(m.status))
	default:
		b.WriteString("  " + metaStyle.Render("new here? press ctrl+n to create an account"))
	}

	return b.String()
}
