package brackets

import (
	"testing"
	"time"

	"github.com/cardarena/arena-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestAdvanceFourPlayerTournament(t *testing.T) {
	b, err := Build([]int{10, 20, 30, 40}, 4)
	require.NoError(t, err)

	out, err := Advance(b, 1, "R1M1", 10, testNow)
	require.NoError(t, err)
	assert.False(t, out.RoundCompleted)
	assert.Nil(t, out.ChampionID)

	out, err = Advance(b, 1, "R1M2", 30, testNow)
	require.NoError(t, err)
	assert.True(t, out.RoundCompleted)
	assert.Nil(t, out.ChampionID)

	// Final is fed by the round-1 winners in bracket order.
	final := b.Rounds[1][0]
	require.NotNil(t, final.Player1ID)
	require.NotNil(t, final.Player2ID)
	assert.Equal(t, 10, *final.Player1ID)
	assert.Equal(t, 30, *final.Player2ID)

	out, err = Advance(b, 2, "R2M1", 30, testNow)
	require.NoError(t, err)
	assert.True(t, out.RoundCompleted)
	require.NotNil(t, out.ChampionID)
	assert.Equal(t, 30, *out.ChampionID)
}

func TestAdvanceEightPlayerNextRoundOrder(t *testing.T) {
	b, err := Build([]int{1, 2, 3, 4, 5, 6, 7, 8}, 8)
	require.NoError(t, err)

	winners := []int{8, 4, 7, 3}
	uids := []string{"R1M1", "R1M2", "R1M3", "R1M4"}
	for i, uid := range uids {
		out, err := Advance(b, 1, uid, winners[i], testNow)
		require.NoError(t, err)
		assert.Equal(t, i == len(uids)-1, out.RoundCompleted)
	}

	// Semifinal k pairs the winners of quarterfinals 2k and 2k+1.
	assert.Equal(t, 8, *b.Rounds[1][0].Player1ID)
	assert.Equal(t, 4, *b.Rounds[1][0].Player2ID)
	assert.Equal(t, 7, *b.Rounds[1][1].Player1ID)
	assert.Equal(t, 3, *b.Rounds[1][1].Player2ID)

	_, err = Advance(b, 2, "R2M1", 4, testNow)
	require.NoError(t, err)
	out, err := Advance(b, 2, "R2M2", 7, testNow)
	require.NoError(t, err)
	assert.True(t, out.RoundCompleted)

	out, err = Advance(b, 3, "R3M1", 7, testNow)
	require.NoError(t, err)
	require.NotNil(t, out.ChampionID)
	assert.Equal(t, 7, *out.ChampionID)
}

func TestAdvanceUnknownMatch(t *testing.T) {
	b, err := Build([]int{10, 20, 30, 40}, 4)
	require.NoError(t, err)

	_, err = Advance(b, 1, "R9M9", 10, testNow)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = Advance(b, 1, "garbage", 10, testNow)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestAdvanceStaleMatch(t *testing.T) {
	b, err := Build([]int{10, 20, 30, 40}, 4)
	require.NoError(t, err)

	// Reporting a future-round match before its slots are filled.
	_, err = Advance(b, 1, "R2M1", 10, testNow)
	assert.ErrorIs(t, err, ErrStaleMatch)

	_, err = Advance(b, 1, "R1M1", 10, testNow)
	require.NoError(t, err)

	// Reporting the same match twice.
	_, err = Advance(b, 1, "R1M1", 40, testNow)
	assert.ErrorIs(t, err, ErrStaleMatch)
	assert.Equal(t, 10, *b.Rounds[0][0].WinnerID)
}

func TestAdvanceInvalidWinner(t *testing.T) {
	b, err := Build([]int{10, 20, 30, 40}, 4)
	require.NoError(t, err)

	_, err = Advance(b, 1, "R1M1", 99, testNow)
	assert.ErrorIs(t, err, ErrInvalidWinner)
	assert.Equal(t, models.BracketMatchPending, b.Rounds[0][0].Status)
}

func TestAdvanceLeavesBracketUnchangedOnError(t *testing.T) {
	b, err := Build([]int{10, 20, 30, 40}, 4)
	require.NoError(t, err)

	before, err := Build([]int{10, 20, 30, 40}, 4)
	require.NoError(t, err)

	_, err = Advance(b, 1, "R1M3", 10, testNow)
	require.ErrorIs(t, err, ErrMatchNotFound)
	assert.Equal(t, before, b)
}
