package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type BracketMatchStatus string

const (
	BracketMatchPending   BracketMatchStatus = "pending"
	BracketMatchCompleted BracketMatchStatus = "completed"
)

// BracketMatch is one slot-pair in the elimination tree. Player slots are
// nil until the feeding matches of the previous round complete.
type BracketMatch struct {
	Round       int                `json:"round"`
	Slot        int                `json:"slot"`
	Player1ID   *int               `json:"player1_id"`
	Player2ID   *int               `json:"player2_id"`
	WinnerID    *int               `json:"winner_id"`
	Status      BracketMatchStatus `json:"status"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// UID identifies a bracket match within its tournament, e.g. "R2M1".
func (m *BracketMatch) UID() string {
	return fmt.Sprintf("R%dM%d", m.Round, m.Slot+1)
}

func (m *BracketMatch) HasPlayer(userID int) bool {
	return (m.Player1ID != nil && *m.Player1ID == userID) ||
		(m.Player2ID != nil && *m.Player2ID == userID)
}

// Bracket is the complete single-elimination tree for a tournament,
// fixed-shape: Rounds[0] holds size/2 matches, each following round half as
// many, down to the final. It is embedded in the tournament row as JSONB.
type Bracket struct {
	Size   int              `json:"size"`
	Rounds [][]BracketMatch `json:"rounds"`
}

func (b *Bracket) NumRounds() int {
	return len(b.Rounds)
}

// FindMatch resolves a match UID like "R1M2". Returns nil if the UID does
// not name a slot in this bracket.
func (b *Bracket) FindMatch(uid string) *BracketMatch {
	var round, num int
	if _, err := fmt.Sscanf(uid, "R%dM%d", &round, &num); err != nil {
		return nil
	}
	if round < 1 || round > len(b.Rounds) {
		return nil
	}
	if num < 1 || num > len(b.Rounds[round-1]) {
		return nil
	}
	return &b.Rounds[round-1][num-1]
}

// RoundCompleted reports whether every match of the given 1-based round is
// completed.
func (b *Bracket) RoundCompleted(round int) bool {
	if round < 1 || round > len(b.Rounds) {
		return false
	}
	for i := range b.Rounds[round-1] {
		if b.Rounds[round-1][i].Status != BracketMatchCompleted {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer so the bracket can be stored as JSONB.
func (b Bracket) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner for reading the JSONB column back.
func (b *Bracket) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	raw, ok := src.([]byte)
	if !ok {
		return errors.New("bracket: unsupported scan source")
	}
	return json.Unmarshal(raw, b)
}
