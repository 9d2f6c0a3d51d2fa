package brackets

import (
	"testing"

	"github.com/cardarena/arena-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFourPlayers(t *testing.T) {
	b, err := Build([]int{10, 20, 30, 40}, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, b.Size)
	require.Len(t, b.Rounds, 2)
	require.Len(t, b.Rounds[0], 2)
	require.Len(t, b.Rounds[1], 1)

	// Seed layout: 1v4, 2v3 in join order.
	assert.Equal(t, 10, *b.Rounds[0][0].Player1ID)
	assert.Equal(t, 40, *b.Rounds[0][0].Player2ID)
	assert.Equal(t, 20, *b.Rounds[0][1].Player1ID)
	assert.Equal(t, 30, *b.Rounds[0][1].Player2ID)

	final := b.Rounds[1][0]
	assert.Nil(t, final.Player1ID)
	assert.Nil(t, final.Player2ID)
	assert.Equal(t, models.BracketMatchPending, final.Status)
}

func TestBuildEightPlayers(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	b, err := Build(ids, 8)
	require.NoError(t, err)

	require.Len(t, b.Rounds, 3)
	require.Len(t, b.Rounds[0], 4)
	require.Len(t, b.Rounds[1], 2)
	require.Len(t, b.Rounds[2], 1)

	// Seed layout: 1v8, 4v5, 2v7, 3v6.
	pairs := [][2]int{{1, 8}, {4, 5}, {2, 7}, {3, 6}}
	for k, want := range pairs {
		assert.Equal(t, want[0], *b.Rounds[0][k].Player1ID, "match %d", k)
		assert.Equal(t, want[1], *b.Rounds[0][k].Player2ID, "match %d", k)
	}

	// Every participant appears in exactly one round-1 match.
	seen := make(map[int]int)
	for _, m := range b.Rounds[0] {
		seen[*m.Player1ID]++
		seen[*m.Player2ID]++
	}
	for _, id := range ids {
		assert.Equal(t, 1, seen[id], "participant %d", id)
	}
}

func TestBuildDeterministic(t *testing.T) {
	ids := []int{5, 9, 2, 7, 11, 3, 8, 6}
	a, err := Build(ids, 8)
	require.NoError(t, err)
	b, err := Build(ids, 8)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuildRejectsUnsupportedSize(t *testing.T) {
	for _, size := range []int{0, 2, 6, 16} {
		_, err := Build(make([]int, size), size)
		assert.ErrorIs(t, err, ErrUnsupportedSize, "size %d", size)
	}
}

func TestBuildRejectsIncompleteRoster(t *testing.T) {
	_, err := Build([]int{1, 2, 3}, 4)
	assert.ErrorIs(t, err, ErrIncompleteRoster)

	_, err = Build([]int{1, 2, 3, 4, 5}, 4)
	assert.ErrorIs(t, err, ErrIncompleteRoster)
}
