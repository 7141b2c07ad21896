package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/internal/session"
	"github.com/tellerbank/teller/pkg/client"
	"github.com/tellerbank/teller/pkg/domain"
)

// profileState is the state machine for the profile view.
type profileState int

const (
	pfViewing  profileState = iota
	pfEditing               // editing profile fields
	pfPassword              // changing password
)

type profileField int

const (
	pfFirstName profileField = iota
	pfLastName
	pfEmail
	pfPhone
	pfAddress
	pfNumFields
)

type pwField int

const (
	pwCurrent pwField = iota
	pwNew
	pwConfirm
	pwNumFields
)

type profileSavedMsg struct{ err error }

type passwordSavedMsg struct{ err error }

type profileModel struct {
	ctrl       *session.Controller
	state      profileState
	fields     [pfNumFields]string
	pwFields   [pwNumFields]string
	focus      int
	submitting bool
	statusMsg  string
	okMsg      string
}

func newProfileModel(ctrl *session.Controller) profileModel {
	return profileModel{ctrl: ctrl}
}

func (m profileModel) Init() tea.Cmd {
	return nil
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
		} else {
			m.state = pfViewing
			m.okMsg = "profile updated"
		}
		return m, nil

	case passwordSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
		} else {
			m.state = pfViewing
			m.pwFields = [pwNumFields]string{}
			m.okMsg = "password updated"
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch m.state {
		case pfViewing:
			return m.updateViewingKeys(msg)
		case pfEditing:
			return m.updateEditingKeys(msg)
		case pfPassword:
			return m.updatePasswordKeys(msg)
		}
	}
	return m, nil
}

func (m profileModel) updateViewingKeys(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch msg.String() {
	case "e":
		snap := m.ctrl.Snapshot()
		if snap.Identity == nil {
			return m, nil
		}
		m.state = pfEditing
		m.focus = 0
		m.statusMsg = ""
		m.okMsg = ""
		m.fields = [pfNumFields]string{
			snap.Identity.FirstName,
			snap.Identity.LastName,
			snap.Identity.Email,
			snap.Identity.PhoneNumber,
			snap.Identity.Address,
		}
	case "w":
		m.state = pfPassword
		m.focus = 0
		m.statusMsg = ""
		m.okMsg = ""
		m.pwFields = [pwNumFields]string{}
	}
	return m, nil
}

func (m profileModel) updateEditingKeys(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	m.statusMsg = ""
	switch msg.String() {
	case "esc":
		m.state = pfViewing
	case "ctrl+s":
		return m.submitProfile()
	case "tab", "down":
		m.focus = (m.focus + 1) % int(pfNumFields)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + int(pfNumFields)) % int(pfNumFields)
	case "enter":
		if m.focus == int(pfAddress) {
			return m.submitProfile()
		}
		m.focus++
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m profileModel) updatePasswordKeys(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	m.statusMsg = ""
	switch msg.String() {
	case "esc":
		m.state = pfViewing
	case "ctrl+s":
		return m.submitPassword()
	case "tab", "down":
		m.focus = (m.focus + 1) % int(pwNumFields)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + int(pwNumFields)) % int(pwNumFields)
	case "enter":
		if m.focus == int(pwConfirm) {
			return m.submitPassword()
		}
		m.focus++
	default:
		m.pwFields[m.focus] = editRune(m.pwFields[m.focus], msg.String())
	}
	return m, nil
}

func (m profileModel) submitProfile() (profileModel, tea.Cmd) {
	req := client.ProfileRequest{
		FirstName:   m.fields[pfFirstName],
		LastName:    m.fields[pfLastName],
		Email:       m.fields[pfEmail],
		PhoneNumber: m.fields[pfPhone],
		Address:     m.fields[pfAddress],
	}
	m.submitting = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return profileSavedMsg{err: ctrl.UpdateProfile(context.Background(), req)}
	}
}

func (m profileModel) submitPassword() (profileModel, tea.Cmd) {
	current := m.pwFields[pwCurrent]
	next := m.pwFields[pwNew]
	confirm := m.pwFields[pwConfirm]
	m.submitting = true
	ctrl := m.ctrl
	return m, func() tea.Msg {
		return passwordSavedMsg{err: ctrl.ChangePassword(context.Background(), current, next, confirm)}
	}
}

func (m profileModel) View() string {
	switch m.state {
	case pfEditing:
		return m.viewEditing()
	case pfPassword:
		return m.viewPassword()
	default:
		return m.viewProfile()
	}
}

func (m profileModel) viewProfile() string {
	var b strings.Builder
	snap := m.ctrl.Snapshot()

	b.WriteString("  " + selectedStyle.Render("Your Profile") + "\n\n")

	if snap.Identity == nil {
		b.WriteString("  " + dimStyle.Render("no profile loaded") + "\n")
		return b.String()
	}
	u := snap.Identity

	row := func(label, value string) {
		fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render(fmt.Sprintf("%-16s", label)), normalStyle.Render(value))
	}
	row("name", u.FullName())
	row("email", u.Email)
	if u.PhoneNumber != "" {
		row("phone", u.PhoneNumber)
	}
	if u.Address != "" {
		row("address", u.Address)
	}
	if u.AccountNumber != "" {
		row("account", domain.MaskAccountNumber(u.AccountNumber))
	}
	if u.Role != "" {
		row("role", u.Role)
	}
	if !snap.TokenExpiry.IsZero() {
		row("session expires", snap.TokenExpiry.Local().Format("Jan 2 15:04"))
	}

	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString("  " + errStyle.Render(m.statusMsg) + "\n")
	} else if m.okMsg != "" {
		b.WriteString("  " + okStyle.Render(m.okMsg) + "\n")
	}

	return b.String()
}

func (m profileModel) viewEditing() string {
	var b strings.Builder
	b.WriteString("  " + selectedStyle.Render("Edit Profile") + "\n\n")

	labels := [pfNumFields]string{"first name", "last name", "email", "phone", "address"}
	for i := profileField(0); i < pfNumFields; i++ {
		b.WriteString("  " + renderFormField(labels[i], m.fields[i], int(i) == m.focus, false) + "\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString("  " + dimStyle.Render("saving..."))
	} else if m.statusMsg != "" {
		b.WriteString("  " + errStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m profileModel) viewPassword() string {
	var b strings.Builder
	b.WriteString("  " + selectedStyle.Render("Change Password") + "\n\n")

	labels := [pwNumFields]string{"current password", "new password", "confirm password"}
	for i := pwField(0); i < pwNumFields; i++ {
		b.WriteString("  " + renderFormField(labels[i], m.pwFields[i], int(i) == m.focus, true) + "\n")
	}

	b.WriteString("\n")
	if m.submitting {
		b.WriteString("  " + dimStyle.Render("saving..."))
	} else if m.statusMsg != "" {
		b.WriteString("  " + errStyle.Render(m.statusMsg))
	}
	return b.String()
}
