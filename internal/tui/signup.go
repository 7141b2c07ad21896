package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/internal/session"
)

type signupField int

const (
	suFirstName signupField = iota
	suLastName
	suEmail
	suPassword
	suConfirm
	suPhone
	suAddress
	suNumFields
)

// registeredMsg carries the result of an account creation attempt. A
// successful registration does not sign the user in; the app lands them on
// the sign-in form instead.
type registeredMsg struct{ err error }

type signupModel struct {
	ctrl       *session.Controller
	fields     [suNumFields]string
	focus      signupField
	submitting bool
	status     string
}

func newSignupModel(ctrl *session.Controller) signupModel {
	return signupModel{ctrl: ctrl}
}

func (m signupModel) Init() tea.Cmd {
	return nil
}

func (m signupModel) Update(msg tea.Msg) (signupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errText(msg.err)
		} else {
			m.fields = [suNumFields]string{}
			m.focus = suFirstName
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.status = ""
		switch msg.String() {
		case "tab", "down":
			m.focus = (m.focus + 1) % suNumFields
		case "shift+tab", "up":
			m.focus = (m.focus - 1 + suNumFields) % suNumFields
		case "enter":
			if m.focus == suAddress {
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

func (m signupModel) submit() (signupModel, tea.Cmd) {
	form := session.RegisterForm{
		FirstName:       m.fields[suFirstName],
		LastName:        m.fields[suLastName],
		Email:           m.fields[suEmail],
		Password:        m.fields[suPassword],
		ConfirmPassword: m.fields[suConfirm],
		PhoneNumber:     m.fields[suPhone],
		Address:         m.fields[suAddress],
	}

	m.submitting = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return registeredMsg{err: ctrl.Register(context.Background(), form)}
	}
}

func (m signupModel) View() string {
	var b strings.Builder

	b.WriteString("  " + selectedStyle.Render("Create your account") + "\n\n")

	labels := [suNumFields]string{
		"first name", "last name", "email",
		"password", "confirm password",
		"phone (optional)", "address (optional)",
	}
	secret := [suNumFields]bool{suPassword: true, suConfirm: true}
	for i := signupField(0); i < suNumFields; i++ {
		b.WriteString("  " + renderFormField(labels[i], m.fields[i], i == m.focus, secret[i]) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString("  " + dimStyle.Render("creating account..."))
	case m.status != "":
		b.WriteString("  " + errStyle.Render(m.status))
	default:
		b.WriteString("  " + metaStyle.Render("already have an account? press esc to sign in"))
	}

	return b.String()
}
