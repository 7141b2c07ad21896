package domain

import "testing"

func TestIncoming(t *testing.T) {
	if !(Transaction{Type: TxDeposit}).Incoming() {
		t.Error("deposits credit the account")
	}
	if (Transaction{Type: TxWithdrawal}).Incoming() {
		t.Error("withdrawals debit the account")
	}
	if (Transaction{Type: TxTransfer}).Incoming() {
		t.Error("outbound transfers debit the account")
	}
}

func TestValidTransactionType(t *testing.T) {
	for _, v := range TransactionTypes() {
		if !ValidTransactionType(v) {
			t.Errorf("ValidTransactionType(%q) = false, want true", v)
		}
	}
	if ValidTransactionType("refund") {
		t.Error("unknown type accepted")
	}
	if ValidTransactionType("") {
		t.Error("empty type accepted")
	}
}
