package models

import (
	"time"

	"github.com/google/uuid"
)

type AlertKind string

const (
	AlertTournamentCompleted AlertKind = "tournament_completed"
	AlertTournamentCancelled AlertKind = "tournament_cancelled"
	AlertLargeAdjustment     AlertKind = "large_adjustment"
	AlertBalanceMismatch     AlertKind = "balance_mismatch"
)

// Alert is an operational notification surfaced on the dashboard. Delivery
// beyond persistence and the websocket stream is out of scope.
type Alert struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Kind         AlertKind  `json:"kind" db:"kind"`
	Message      string     `json:"message" db:"message"`
	TournamentID *int       `json:"tournament_id,omitempty" db:"tournament_id"`
	UserID       *int       `json:"user_id,omitempty" db:"user_id"`
	Acknowledged bool       `json:"acknowledged" db:"acknowledged"`
	AckedAt      *time.Time `json:"acked_at,omitempty" db:"acked_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
