package swiss

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament/models"
)

// fixedRand always picks the same candidate index.
type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

func rows(n int) []models.StandingRow {
	out := make([]models.StandingRow, n)
	for i := range out {
		out[i] = models.StandingRow{PlayerID: i + 1, Name: "player", Seq: i + 1}
	}
	return out
}

func TestPairAdjacentAfterOneRound(t *testing.T) {
	players := registered(1, 2, 3, 4)
	matches := []models.MatchRecord{match(1, 6, 2, 3), match(3, 6, 4, 3)}
	standings := ComputeStandings(1, players, matches, RankOptions{})

	pairings, err := Pair(standings, fixedRand(0))
	require.NoError(t, err)
	require.Len(t, pairings, 2)

	got := map[[2]int]bool{}
	for _, p := range pairings {
		assert.False(t, p.IsBye)
		a, b := p.Player1ID, p.Player2ID
		if a > b {
			a, b = b, a
		}
		got[[2]int{a, b}] = true
	}
	assert.Equal(t, map[[2]int]bool{{1, 3}: true, {2, 4}: true}, got, "winners meet winners")
}

func TestPairOddFieldGivesOneBye(t *testing.T) {
	for n := 1; n <= 9; n += 2 {
		standings := rows(n)
		pairings, err := Pair(standings, rand.New(rand.NewSource(int64(n))))
		require.NoError(t, err)

		assert.Len(t, pairings, (n+1)/2)
		assert.True(t, pairings[0].IsBye, "bye is emitted first")
		assert.Equal(t, pairings[0].Player1ID, pairings[0].Player2ID)
		for _, p := range pairings[1:] {
			assert.False(t, p.IsBye)
		}
		assert.NoError(t, ValidatePairings(standings, pairings))
	}
}

func TestPairEvenFieldHasNoBye(t *testing.T) {
	standings := rows(6)
	pairings, err := Pair(standings, fixedRand(0))
	require.NoError(t, err)

	require.Len(t, pairings, 3)
	assert.Equal(t, []models.Pairing{
		{Player1ID: 1, Player1Name: "player", Player2ID: 2, Player2Name: "player"},
		{Player1ID: 3, Player1Name: "player", Player2ID: 4, Player2Name: "player"},
		{Player1ID: 5, Player1Name: "player", Player2ID: 6, Player2Name: "player"},
	}, pairings)
}

func TestPairByeSkipsPlayersWithBye(t *testing.T) {
	standings := rows(5)
	standings[0].Byes = 1
	standings[1].Byes = 1
	standings[3].Byes = 1

	seen := map[int]bool{}
	for i := 0; i < 10; i++ {
		pairings, err := Pair(standings, fixedRand(i))
		require.NoError(t, err)
		seen[pairings[0].Player1ID] = true
	}
	assert.Equal(t, map[int]bool{3: true, 5: true}, seen)
}

func TestPairPinnedByeRemovesPlayerFromOrder(t *testing.T) {
	standings := rows(5)
	pairings, err := Pair(standings, fixedRand(2))
	require.NoError(t, err)

	assert.Equal(t, 3, pairings[0].Player1ID)
	assert.Equal(t, [2]int{1, 2}, [2]int{pairings[1].Player1ID, pairings[1].Player2ID})
	assert.Equal(t, [2]int{4, 5}, [2]int{pairings[2].Player1ID, pairings[2].Player2ID})
}

func TestPairExhaustedByeCandidates(t *testing.T) {
	standings := rows(3)
	for i := range standings {
		standings[i].Byes = 1
	}

	pairings, err := Pair(standings, fixedRand(0))
	assert.ErrorIs(t, err, ErrExhaustedByeCandidates)
	assert.Nil(t, pairings)
}

func TestPairRepeatsOpponentsWhenAdjacent(t *testing.T) {
	// 1 and 2 already met but are still neighbours in the standings.
	players := registered(1, 2, 3, 4)
	matches := []models.MatchRecord{match(1, 1, 2, 1), match(3, 0, 4, 1), match(4, 0, 3, 1)}
	standings := ComputeStandings(1, players, matches, RankOptions{})
	require.Equal(t, []int{3, 4, 1, 2}, ids(standings))

	pairings, err := Pair(standings, fixedRand(0))
	require.NoError(t, err)
	assert.Equal(t, 1, pairings[1].Player1ID)
	assert.Equal(t, 2, pairings[1].Player2ID)
}

func TestPairEmptyField(t *testing.T) {
	pairings, err := Pair(nil, fixedRand(0))
	require.NoError(t, err)
	assert.Empty(t, pairings)
}

func TestPairDoesNotMutateStandings(t *testing.T) {
	standings := rows(5)
	before := append([]models.StandingRow(nil), standings...)

	_, err := Pair(standings, fixedRand(1))
	require.NoError(t, err)
	assert.Equal(t, before, standings)
}

func TestValidatePairingsRejectsDuplicates(t *testing.T) {
	standings := rows(4)
	pairings := []models.Pairing{
		{Player1ID: 1, Player2ID: 2},
		{Player1ID: 2, Player2ID: 3},
	}
	assert.ErrorIs(t, ValidatePairings(standings, pairings), ErrInvalidPairings)
}
