package brackets

import (
	"errors"
	"time"

	"github.com/cardarena/arena-admin/models"
)

var (
	ErrMatchNotFound = errors.New("bracket match not found")
	ErrStaleMatch    = errors.New("match is not pending in the current round")
	ErrInvalidWinner = errors.New("winner is not a participant of the match")
)

// Outcome describes what a result application did to the bracket.
type Outcome struct {
	// RoundCompleted is true when the reported result was the last pending
	// match of the current round.
	RoundCompleted bool
	// ChampionID is set when the completed round was the final.
	ChampionID *int
}

// Advance applies a match result to the bracket. It is the only writer of
// bracket structure; the orchestrator serializes calls per tournament and
// persists the mutated bracket afterwards.
//
// When the result completes the current round, the next round's slots are
// populated in bracket order: match k receives the winners of matches 2k
// and 2k+1. The caller increments the tournament's current round (or marks
// it complete) based on the returned Outcome.
func Advance(b *models.Bracket, currentRound int, matchUID string, winnerID int, now time.Time) (Outcome, error) {
	match := b.FindMatch(matchUID)
	if match == nil {
		return Outcome{}, ErrMatchNotFound
	}
	if match.Round != currentRound || match.Status != models.BracketMatchPending {
		return Outcome{}, ErrStaleMatch
	}
	if match.Player1ID == nil || match.Player2ID == nil {
		// Slots not yet fed by the previous round.
		return Outcome{}, ErrStaleMatch
	}
	if !match.HasPlayer(winnerID) {
		return Outcome{}, ErrInvalidWinner
	}

	winner := winnerID
	completedAt := now
	match.WinnerID = &winner
	match.Status = models.BracketMatchCompleted
	match.CompletedAt = &completedAt

	if !b.RoundCompleted(currentRound) {
		return Outcome{}, nil
	}

	if currentRound == b.NumRounds() {
		return Outcome{RoundCompleted: true, ChampionID: &winner}, nil
	}

	completed := b.Rounds[currentRound-1]
	next := b.Rounds[currentRound]
	for k := range next {
		w1 := *completed[2*k].WinnerID
		w2 := *completed[2*k+1].WinnerID
		next[k].Player1ID = &w1
		next[k].Player2ID = &w2
	}

	return Outcome{RoundCompleted: true}, nil
}
