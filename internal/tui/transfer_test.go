package tui

import (
	"strings"
	"testing"

	"github.com/tellerbank/teller/pkg/domain"
)

func TestTransferSubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields [tfNumFields]string
		want   string
	}{
		{"all empty", [tfNumFields]string{}, "required"},
		{"missing pin", [tfNumFields]string{tfRecipient: "123", tfAmount: "50"}, "required"},
		{"zero amount", [tfNumFields]string{tfRecipient: "123", tfAmount: "0", tfPin: "1234"}, "valid amount"},
		{"short pin", [tfNumFields]string{tfRecipient: "123", tfAmount: "50", tfPin: "12"}, "4-digit"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTransferModel(nil)
			m.fields = tc.fields
			m, cmd := m.submit()
			if cmd != nil {
				t.Fatal("invalid form must not produce a network command")
			}
			if !strings.Contains(m.statusMsg, tc.want) {
				t.Errorf("statusMsg = %q, want it to mention %q", m.statusMsg, tc.want)
			}
		})
	}
}

func TestTransferSuccessResetsForm(t *testing.T) {
	m := newTransferModel(nil)
	m.fields = [tfNumFields]string{tfRecipient: "123", tfAmount: "50", tfPin: "1234"}
	m.submitting = true

	m, _ = m.Update(transferDoneMsg{tx: &domain.Transaction{Status: domain.TxCompleted}})
	if m.fields[tfRecipient] != "" || m.fields[tfPin] != "" {
		t.Error("expected form cleared after a successful transfer")
	}
	if !strings.Contains(m.okMsg, "completed") {
		t.Errorf("okMsg = %q, want completion text", m.okMsg)
	}
}

func TestTransferPendingMessage(t *testing.T) {
	m := newTransferModel(nil)
	m, _ = m.Update(transferDoneMsg{tx: &domain.Transaction{Status: domain.TxPending}})
	if !strings.Contains(m.okMsg, "pending") {
		t.Errorf("okMsg = %q, want pending settlement text", m.okMsg)
	}
}

func TestTransferErrorShown(t *testing.T) {
	m := newTransferModel(nil)
	m, _ = m.Update(transferDoneMsg{err: errFake("insufficient funds")})
	if !strings.Contains(m.statusMsg, "insufficient funds") {
		t.Errorf("statusMsg = %q, want the backend message verbatim", m.statusMsg)
	}
}
