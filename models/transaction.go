package models

import "time"

// TransactionType enumerates every kind of coin movement the ledger records.
type TransactionType string

const (
	TransactionMatchEntry      TransactionType = "match_entry"
	TransactionMatchWin        TransactionType = "match_win"
	TransactionTournamentEntry TransactionType = "tournament_entry"
	TransactionTournamentWin   TransactionType = "tournament_win"
	TransactionCoinPurchase    TransactionType = "coin_purchase"
	TransactionAdminAdd        TransactionType = "admin_add"
	TransactionAdminRemove     TransactionType = "admin_remove"
)

// Transaction is an immutable ledger entry. Amount is signed: debits are
// negative, credits positive. Entries are never updated or deleted;
// corrections are new offsetting entries.
type Transaction struct {
	ID           int64           `json:"id" db:"id"`
	UserID       int             `json:"user_id" db:"user_id"`
	Type         TransactionType `json:"type" db:"type"`
	Amount       int64           `json:"amount" db:"amount"`
	Description  string          `json:"description" db:"description"`
	MatchID      *int            `json:"match_id,omitempty" db:"match_id"`
	TournamentID *int            `json:"tournament_id,omitempty" db:"tournament_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
