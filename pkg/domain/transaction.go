package domain

import "time"

// Transaction type values used by the backend.
const (
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxTransfer   = "transfer"
)

// Transaction status values used by the backend.
const (
	TxCompleted = "completed"
	TxPending   = "pending"
	TxFailed    = "failed"
)

// Transaction is a single ledger entry on the user's account.
type Transaction struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Sender      string    `json:"sender,omitempty"`
	Recipient   string    `json:"recipient,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
}

// Incoming reports whether the transaction credits the account.
func (t Transaction) Incoming() bool {
	return t.Type == TxDeposit
}

// transactionTypes lists the filterable transaction types in UI order.
var transactionTypes = []string{TxDeposit, TxWithdrawal, TxTransfer}

// TransactionTypes returns the filterable transaction types in UI order.
func TransactionTypes() []string {
	return transactionTypes
}

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t string) bool {
	for _, v := range transactionTypes {
		if v == t {
			return true
		}
	}
	return false
}
