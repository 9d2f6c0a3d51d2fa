// Package brackets holds the pure parts of the tournament engine: the
// single-elimination bracket builder, the round advancement state machine,
// and the websocket hub that streams their results to dashboard clients.
package brackets

import (
	"errors"

	"github.com/cardarena/arena-admin/models"
)

var (
	ErrUnsupportedSize  = errors.New("bracket size must be 4 or 8")
	ErrIncompleteRoster = errors.New("participant count does not match bracket size")
)

// seedOrder maps bracket size to the round-1 slot layout, expressed as
// indexes into the join-ordered participant list. Pairs are consecutive:
// size 4 seeds 1v4 and 2v3, size 8 seeds 1v8, 4v5, 2v7, 3v6. The layout is
// deterministic so brackets are reproducible from join order alone.
var seedOrder = map[int][]int{
	4: {0, 3, 1, 2},
	8: {0, 7, 3, 4, 1, 6, 2, 5},
}

// Build produces the initial bracket for a full roster. Round 1 is seeded
// from participant join order; later rounds start with empty slots that
// Advance fills as results come in.
func Build(participantIDs []int, size int) (*models.Bracket, error) {
	order, ok := seedOrder[size]
	if !ok {
		return nil, ErrUnsupportedSize
	}
	if len(participantIDs) != size {
		return nil, ErrIncompleteRoster
	}

	numRounds := 0
	for n := size; n > 1; n /= 2 {
		numRounds++
	}

	bracket := &models.Bracket{
		Size:   size,
		Rounds: make([][]models.BracketMatch, numRounds),
	}

	for r := 0; r < numRounds; r++ {
		matches := make([]models.BracketMatch, size>>(r+1))
		for k := range matches {
			matches[k] = models.BracketMatch{
				Round:  r + 1,
				Slot:   k,
				Status: models.BracketMatchPending,
			}
		}
		bracket.Rounds[r] = matches
	}

	for k := range bracket.Rounds[0] {
		p1 := participantIDs[order[2*k]]
		p2 := participantIDs[order[2*k+1]]
		bracket.Rounds[0][k].Player1ID = &p1
		bracket.Rounds[0][k].Player2ID = &p2
	}

	return bracket, nil
}
