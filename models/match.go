package models

import "time"

type MatchStatus string

const (
	MatchActive    MatchStatus = "active"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

// Match is a standalone (non-bracket) match between two players. Both
// players pay EntryCost on creation; the winner takes the whole pot.
type Match struct {
	ID          int         `json:"id" db:"id"`
	Player1ID   int         `json:"player1_id" db:"player1_id"`
	Player2ID   int         `json:"player2_id" db:"player2_id"`
	EntryCost   int64       `json:"entry_cost" db:"entry_cost"`
	WinnerID    *int        `json:"winner_id,omitempty" db:"winner_id"`
	Status      MatchStatus `json:"status" db:"status"`
	CompletedAt *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

func (m *Match) HasPlayer(userID int) bool {
	return m.Player1ID == userID || m.Player2ID == userID
}
