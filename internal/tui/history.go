package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tellerbank/teller/pkg/client"
	"github.com/tellerbank/teller/pkg/domain"
)

// historyPageSize matches the original web UI's 10 rows per page.
const historyPageSize = 10

type historyLoadedMsg struct {
	txs []domain.Transaction
	err error
}

// historyModel lists the full transaction history. Filtering and paging are
// client-side: the backend returns the whole list.
type historyModel struct {
	api       *client.Client
	txs       []domain.Transaction
	loading   bool
	statusMsg string
	filterIdx int // 0 = all, then domain.TransactionTypes() order
	search    string
	editing   bool
	page      int
	width     int
	height    int
}

func newHistoryModel(api *client.Client) historyModel {
	return historyModel{api: api, loading: true}
}

func (m historyModel) Init() tea.Cmd {
	return m.load()
}

func (m historyModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		txs, err := api.Transactions(context.Background())
		return historyLoadedMsg{txs: txs, err: err}
	}
}

func (m historyModel) Update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case historyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = errText(msg.err)
		} else {
			m.txs = msg.txs
			m.page = 0
		}

	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "enter", "esc":
				m.editing = false
			default:
				m.search = editRune(m.search, msg.String())
				m.page = 0
			}
			return m, nil
		}
		switch msg.String() {
		case "/":
			m.editing = true
			m.search = ""
			m.page = 0
		case "t":
			m.filterIdx = (m.filterIdx + 1) % (len(domain.TransactionTypes()) + 1)
			m.page = 0
		case "l", "right":
			if (m.page+1)*historyPageSize < len(m.filtered()) {
				m.page++
			}
		case "h", "left":
			if m.page > 0 {
				m.page--
			}
		case "r":
			m.loading = true
			m.statusMsg = ""
			return m, m.load()
		}
	}
	return m, nil
}

// filtered applies the type filter and substring search.
func (m historyModel) filtered() []domain.Transaction {
	var want string
	if m.filterIdx > 0 {
		want = domain.TransactionTypes()[m.filterIdx-1]
	}
	term := strings.ToLower(strings.TrimSpace(m.search))

	var out []domain.Transaction
	for _, tx := range m.txs {
		if want != "" && tx.Type != want {
			continue
		}
		if term != "" {
			hay := strings.ToLower(tx.Description + " " + tx.Recipient + " " + tx.Sender)
			if !strings.Contains(hay, term) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}

func (m historyModel) filterLabel() string {
	if m.filterIdx == 0 {
		return "all"
	}
	return domain.TransactionTypes()[m.filterIdx-1]
}

func (m historyModel) View() string {
	var b strings.Builder

	header := selectedStyle.Render("Transaction History")
	filter := metaStyle.Render("filter: ") + TxTypeStyle(m.filterLabel()).Render(m.filterLabel())
	b.WriteString("  " + header + "   " + filter)
	if m.editing {
		b.WriteString("   " + accentStyle.Render("/"+m.search+"█"))
	} else if m.search != "" {
		b.WriteString("   " + metaStyle.Render("/"+m.search))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("  " + dimStyle.Render("loading transactions...") + "\n")
		return b.String()
	}
	if m.statusMsg != "" {
		b.WriteString("  " + errStyle.Render(m.statusMsg) + "\n")
		return b.String()
	}

	txs := m.filtered()
	if len(txs) == 0 {
		b.WriteString("  " + dimStyle.Render("no transactions match") + "\n")
		return b.String()
	}

	start := m.page * historyPageSize
	end := start + historyPageSize
	if end > len(txs) {
		end = len(txs)
	}
	for _, tx := range txs[start:end] {
		b.WriteString("  " + renderTxRow(tx, m.width) + "\n")
	}

	totalPages := (len(txs) + historyPageSize - 1) / historyPageSize
	fmt.Fprintf(&b, "\n  %s\n", metaStyle.Render(fmt.Sprintf("page %d/%d · %d transactions", m.page+1, totalPages, len(txs))))

	return b.String()
}
