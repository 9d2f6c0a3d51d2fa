package models

import "time"

// TournamentStatus matches the ENUM in the database. Transitions are
// monotonic except registration→cancelled and active→cancelled.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
	StatusCancelled    TournamentStatus = "cancelled"
)

type TournamentType string

const (
	TournamentPublic  TournamentType = "public"
	TournamentPrivate TournamentType = "private"
)

const DefaultAwardPercentage = 80

// Tournament owns its bracket and participant list outright; participants
// and winner are weak references into the users table. Version backs the
// optimistic compare-and-swap used to serialize writes per tournament.
type Tournament struct {
	ID                 int              `json:"id" db:"id"`
	Name               string           `json:"name" db:"name"`
	Type               TournamentType   `json:"type" db:"type"`
	MaxPlayers         int              `json:"max_players" db:"max_players"`
	EntryCost          int64            `json:"entry_cost" db:"entry_cost"`
	PrizePool          int64            `json:"prize_pool" db:"prize_pool"`
	AwardPercentage    int              `json:"award_percentage" db:"award_percentage"`
	Status             TournamentStatus `json:"status" db:"status"`
	Participants       []int            `json:"participants" db:"participants"`
	Bracket            *Bracket         `json:"bracket,omitempty" db:"bracket"`
	CurrentRound       int              `json:"current_round" db:"current_round"`
	WinnerID           *int             `json:"winner_id,omitempty" db:"winner_id"`
	PrizeDistributed   bool             `json:"prize_distributed" db:"prize_distributed"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancellationReason *string          `json:"cancellation_reason,omitempty" db:"cancellation_reason"`
	BannerKey          *string          `json:"-" db:"banner_key"`
	BannerURL          *string          `json:"banner_url,omitempty" db:"-"`
	Version            int              `json:"-" db:"version"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
}

func (t *Tournament) HasParticipant(userID int) bool {
	for _, id := range t.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// PrizeAmount is the champion payout: floor(prizePool * awardPercentage / 100).
// Integer math keeps the truncation exact; the remainder stays with the house.
func (t *Tournament) PrizeAmount() int64 {
	return t.PrizePool * int64(t.AwardPercentage) / 100
}
