package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tellerbank/teller/pkg/domain"
)

// Shimmer animation for the TELLER wordmark.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "T E L L E R" as a slow wave of teal light,
// deep slate (#133a3a) -> bright teal (#2dd4bf).
func renderShimmerLogo(frame int) string {
	const text = "TELLER"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.1 - x*3.0
		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)
		b = b*0.75 + 0.2
		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		r := clampByte(19 + b*(45-19))
		g := clampByte(58 + b*(212-58))
		bl := clampByte(58 + b*(191-58))
		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		out += lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(string(text[i]))
		if i < n-1 {
			out += "  "
		}
	}
	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Accent / action styles
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2dd4bf"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	errStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#e06060"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	// Money
	creditStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80")).
			Bold(true)

	debitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060")).
			Bold(true)

	balanceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	// Form inputs
	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#2dd4bf")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	// Transaction type colors
	txTypeColors = map[string]lipgloss.Color{
		domain.TxDeposit:    lipgloss.Color("#4ade80"),
		domain.TxWithdrawal: lipgloss.Color("#f0944a"),
		domain.TxTransfer:   lipgloss.Color("#60a0e0"),
	}

	// Transaction status colors
	txStatusColors = map[string]lipgloss.Color{
		domain.TxCompleted: lipgloss.Color("#4ade80"),
		domain.TxPending:   lipgloss.Color("#d4a844"),
		domain.TxFailed:    lipgloss.Color("#e06060"),
	}
)

// TxTypeStyle returns a bold style colored for the given transaction type.
func TxTypeStyle(t string) lipgloss.Style {
	if c, ok := txTypeColors[t]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// TxStatusStyle returns a style colored for the given transaction status.
func TxStatusStyle(s string) lipgloss.Style {
	if c, ok := txStatusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0"))
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

var helpItems = []helpItem{
	{"Support", "tellerbank.app/support", "https://tellerbank.app/support"},
	{"Terms of Service", "tellerbank.app/terms", "https://tellerbank.app/terms"},
	{"Privacy Policy", "tellerbank.app/privacy", "https://tellerbank.app/privacy"},
	{"Website", "tellerbank.app", "https://tellerbank.app"},
}

// helpView renders the interactive help overlay with a cursor.
func helpView(cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2dd4bf")).
		Bold(true).
		Render("T E L L E R")

	sub := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Your bank, in the terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2dd4bf"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"teller", "Open your account (interactive TUI)"},
		{"teller logout", "Clear your stored session"},
		{"teller version", "Show version"},
		{"teller help", "Show CLI help"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, sub)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range helpItems {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
