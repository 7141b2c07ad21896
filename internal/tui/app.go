package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tellerbank/teller/internal/browser"
	"github.com/tellerbank/teller/internal/session"
	"github.com/tellerbank/teller/pkg/client"
)

type view int

const (
	viewDashboard view = iota
	viewTransfer
	viewHistory
	viewProfile
	viewAdmin
	viewPin
)

// authView selects which form is shown while signed out.
type authView int

const (
	authSignin authView = iota
	authSignup
)

// bootstrapDoneMsg signals that session restore from the credential store
// finished, successfully or not.
type bootstrapDoneMsg struct{ err error }

// App is the root Bubbletea model. It gates everything behind the session
// state: a loading frame until restore finishes, the sign-in/sign-up forms
// while signed out, and the banking tabs once authenticated.
type App struct {
	ctrl       *session.Controller
	api        *client.Client
	view       view
	auth       authView
	signin     signinModel
	signup     signupModel
	dashboard  dashboardModel
	transfer   transferModel
	history    historyModel
	profile    profileModel
	pin        pinModel
	admin      adminModel
	helpOpen   bool
	helpCursor int
	wasAuthed  bool
	width      int
	height     int
	frame      int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(ctrl *session.Controller, api *client.Client) App {
	a := App{
		ctrl:   ctrl,
		api:    api,
		signin: newSigninModel(ctrl),
		signup: newSignupModel(ctrl),
	}
	a.resetViews()
	return a
}

// resetViews discards all signed-in view state. Called on sign-out and when
// the session is invalidated so the next user starts clean.
func (a *App) resetViews() {
	a.view = viewDashboard
	a.dashboard = newDashboardModel(a.ctrl, a.api)
	a.transfer = newTransferModel(a.api)
	a.history = newHistoryModel(a.api)
	a.profile = newProfileModel(a.ctrl)
	a.pin = newPinModel(a.ctrl)
	a.admin = newAdminModel(a.api)
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.bootstrap())
}

func (a App) bootstrap() tea.Cmd {
	ctrl := a.ctrl
	return func() tea.Msg {
		return bootstrapDoneMsg{err: ctrl.Bootstrap(context.Background())}
	}
}

// errText turns an operation error into a line for the status area. A
// superseded result means the session changed underneath the request; the
// result is stale and nothing should be shown for it.
func errText(err error) string {
	if err == nil || errors.Is(err, session.ErrSuperseded) {
		return ""
	}
	if session.IsValidation(err) {
		return err.Error()
	}
	return client.Message(err)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	snap := a.ctrl.Snapshot()

	// A 401 anywhere tears the session down. When that happens outside an
	// explicit sign-out, drop the signed-in views and tell the user why.
	if a.wasAuthed && !snap.Authenticated {
		a.wasAuthed = false
		a.resetViews()
		a.auth = authSignin
		a.signin = newSigninModel(a.ctrl)
		a.signin.notice = "Your session has expired. Please sign in again."
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.history, _ = a.history.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case bootstrapDoneMsg:
		snap = a.ctrl.Snapshot()
		if snap.Authenticated {
			a.wasAuthed = true
			a.view = viewDashboard
			return a, a.dashboard.Init()
		}
		if txt := errText(msg.err); txt != "" {
			a.signin.notice = txt
		}
		return a, nil

	case signedInMsg:
		var cmd tea.Cmd
		a.signin, cmd = a.signin.Update(msg)
		if msg.err == nil {
			a.wasAuthed = true
			a.resetViews()
			return a, tea.Batch(cmd, a.dashboard.Init())
		}
		return a, cmd

	case registeredMsg:
		var cmd tea.Cmd
		a.signup, cmd = a.signup.Update(msg)
		if msg.err == nil {
			a.auth = authSignin
			a.signin.notice = "Registration successful! Please sign in."
		}
		return a, cmd

	case transferDoneMsg:
		var cmd tea.Cmd
		a.transfer, cmd = a.transfer.Update(msg)
		if msg.err == nil {
			// Balance and activity changed; refresh the dashboard behind
			// the scenes so switching back shows fresh numbers.
			return a, tea.Batch(cmd, a.dashboard.loadBalance(), a.dashboard.loadRecent())
		}
		return a, cmd
	}

	switch session.Evaluate(snap) {
	case session.DecisionWait:
		return a, nil
	case session.DecisionSignIn:
		return a.updateAuth(msg)
	}
	return a.updateSignedIn(msg)
}

// updateAuth handles messages while signed out.
func (a App) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "ctrl+n":
			if a.auth == authSignin {
				a.auth = authSignup
				a.signup = newSignupModel(a.ctrl)
				return a, nil
			}
		case "esc":
			if a.auth == authSignup {
				a.auth = authSignin
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	if a.auth == authSignup {
		a.signup, cmd = a.signup.Update(msg)
	} else {
		a.signin, cmd = a.signin.Update(msg)
	}
	return a, cmd
}

// updateSignedIn handles messages once the route guard allows the app.
func (a App) updateSignedIn(msg tea.Msg) (tea.Model, tea.Cmd) {
	snap := a.ctrl.Snapshot()

	if key, ok := msg.(tea.KeyMsg); ok {
		// Help overlay captures all keys when open
		if a.helpOpen {
			switch key.String() {
			case "?", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		if key.String() == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.isEditing() {
			switch key.String() {
			case "q":
				return a, tea.Quit
			case "?":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "o":
				a.ctrl.Logout()
				a.wasAuthed = false
				a.resetViews()
				a.auth = authSignin
				a.signin = newSigninModel(a.ctrl)
				a.signin.notice = "Signed out."
				return a, nil
			case "1":
				return a.switchView(viewDashboard, a.dashboard.Init())
			case "2":
				return a.switchView(viewTransfer, nil)
			case "3":
				return a.switchView(viewHistory, a.history.Init())
			case "4":
				return a.switchView(viewProfile, nil)
			case "5":
				if snap.Identity != nil && snap.Identity.IsAdmin() {
					return a.switchView(viewAdmin, a.admin.Init())
				}
				return a, nil
			case "p":
				if a.view != viewPin {
					a.view = viewPin
					a.pin = newPinModel(a.ctrl)
				}
				return a, nil
			case "esc":
				if a.view == viewPin {
					a.view = viewDashboard
					return a, a.dashboard.Init()
				}
			}
		} else if key.String() == "esc" && a.view == viewPin {
			a.view = viewDashboard
			return a, a.dashboard.Init()
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewTransfer:
		a.transfer, cmd = a.transfer.Update(msg)
	case viewHistory:
		a.history, cmd = a.history.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	case viewPin:
		a.pin, cmd = a.pin.Update(msg)
	}
	return a, cmd
}

func (a App) switchView(v view, initCmd tea.Cmd) (tea.Model, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	a.view = v
	return a, initCmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewTransfer, viewPin:
		return true
	case viewHistory:
		return a.history.editing
	case viewProfile:
		return a.profile.state != pfViewing
	case viewAdmin:
		return a.admin.state != adNormal
	}
	return false
}

func (a App) View() string {
	snap := a.ctrl.Snapshot()

	switch session.Evaluate(snap) {
	case session.DecisionWait:
		return a.viewLoading()
	case session.DecisionSignIn:
		return a.viewAuth()
	}
	return a.viewSignedIn(snap.Identity != nil && snap.Identity.IsAdmin())
}

// header renders the centered shimmer wordmark plus an identity line.
func (a App) header(identityLine string) string {
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	if identityLine != "" {
		w := lipgloss.Width(identityLine)
		pad := (a.width - w) / 2
		if pad < 0 {
			pad = 0
		}
		header += "\n" + strings.Repeat(" ", pad) + identityLine
	} else {
		header += "\n"
	}
	return header
}

func (a App) viewLoading() string {
	body := "\n\n  " + dimStyle.Render("restoring your session...")
	return a.header("") + "\n" + body
}

func (a App) viewAuth() string {
	var body, help string
	if a.auth == authSignup {
		body = a.signup.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("ctrl+s", "submit") + "  " + helpEntry("esc", "sign in") + "  " + helpEntry("ctrl+c", "quit")
	} else {
		body = a.signin.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("ctrl+n", "sign up") + "  " + helpEntry("ctrl+c", "quit")
	}

	chrome := 3 // header(2) + help(1)
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")
	return fmt.Sprintf("%s\n%s\n%s", a.header(""), body, help)
}

func (a App) viewSignedIn(isAdmin bool) string {
	snap := a.ctrl.Snapshot()

	identityLine := ""
	if snap.Identity != nil {
		parts := []string{snap.Identity.FullName()}
		if snap.Identity.Role != "" {
			parts = append(parts, snap.Identity.Role)
		}
		identityLine = metaStyle.Render(strings.Join(parts, " · "))
	}

	// Tab bar: equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Dashboard", viewDashboard},
		{"2", "Transfer", viewTransfer},
		{"3", "History", viewHistory},
		{"4", "Profile", viewProfile},
	}
	if isAdmin {
		tabs = append(tabs, tabEntry{"5", "Admin", viewAdmin})
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	tabsHelp := "1-4"
	if isAdmin {
		tabsHelp = "1-5"
	}

	var body, help string
	switch a.view {
	case viewDashboard:
		body = a.dashboard.View()
		help = " " + helpEntry(tabsHelp, "tabs") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("c", "copy acct") + "  " + helpEntry("p", "pin") + "  " + helpEntry("o", "sign out") + "  " + helpEntry("?", "help") + "  " + helpEntry("q", "quit")
	case viewTransfer:
		body = a.transfer.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("ctrl+s", "send") + "  " + helpEntry("ctrl+c", "quit")
	case viewHistory:
		body = a.history.View()
		if a.history.editing {
			help = " " + helpEntry("enter", "done") + "  " + helpEntry("esc", "cancel")
		} else {
			help = " " + helpEntry(tabsHelp, "tabs") + "  " + helpEntry("/", "search") + "  " + helpEntry("t", "filter") + "  " + helpEntry("h/l", "page") + "  " + helpEntry("r", "reload") + "  " + helpEntry("q", "quit")
		}
	case viewProfile:
		body = a.profile.View()
		if a.profile.state == pfViewing {
			help = " " + helpEntry(tabsHelp, "tabs") + "  " + helpEntry("e", "edit") + "  " + helpEntry("w", "password") + "  " + helpEntry("o", "sign out") + "  " + helpEntry("q", "quit")
		} else {
			help = " " + helpEntry("tab", "next") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
		}
	case viewAdmin:
		body = a.admin.View()
		switch a.admin.state {
		case adNormal:
			help = " " + helpEntry(tabsHelp, "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("a", "credit") + "  " + helpEntry("r", "reload") + "  " + helpEntry("q", "quit")
		default:
			help = " " + helpEntry("enter", "confirm") + "  " + helpEntry("esc", "cancel")
		}
	case viewPin:
		body = a.pin.View()
		help = " " + helpEntry("tab", "next") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "back")
	}

	// Help overlay
	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", a.header(identityLine), tabBar.String(), body, help)
}
