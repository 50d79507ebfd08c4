package swiss

import (
	"sort"

	"github.com/Dosada05/swiss-tournament/models"
)

// RankOptions tunes the ordering of standings. The zero value ranks by wins,
// then OMW, then registration order.
type RankOptions struct {
	// DrawsBeforeOMW adds draws (descending) as a tie-break between wins and OMW.
	DrawsBeforeOMW bool
}

type tally struct {
	matches, wins, draws, byes int
	opponents                  map[int]struct{}
}

// ComputeStandings folds the match records of a tournament into one row per
// registered player, ordered by RankOptions. Players without matches get a
// zeroed row. The result depends only on its inputs.
func ComputeStandings(tournamentID int, players []models.RegisteredPlayer, matches []models.MatchRecord, opts RankOptions) []models.StandingRow {
	tallies := make(map[int]*tally, len(players))
	get := func(id int) *tally {
		t, ok := tallies[id]
		if !ok {
			t = &tally{opponents: make(map[int]struct{})}
			tallies[id] = t
		}
		return t
	}

	for _, m := range matches {
		if m.IsBye() {
			t := get(m.Player1ID)
			t.matches++
			t.wins++
			t.byes++
			continue
		}

		p1, p2 := get(m.Player1ID), get(m.Player2ID)
		p1.matches++
		p2.matches++
		p1.opponents[m.Player2ID] = struct{}{}
		p2.opponents[m.Player1ID] = struct{}{}

		if winner, ok := m.Winner(); ok {
			get(winner).wins++
		} else {
			p1.draws++
			p2.draws++
		}
	}

	rows := make([]models.StandingRow, 0, len(players))
	for _, p := range players {
		row := models.StandingRow{
			TournamentID: tournamentID,
			PlayerID:     p.PlayerID,
			Name:         p.Name,
			Seq:          p.RegistrationID,
		}
		if t, ok := tallies[p.PlayerID]; ok {
			row.Matches = t.matches
			row.Wins = t.wins
			row.Draws = t.draws
			row.Byes = t.byes
			for opp := range t.opponents {
				if ot, ok := tallies[opp]; ok {
					row.OMW += ot.wins
				}
			}
		}
		rows = append(rows, row)
	}

	Rank(rows, opts)
	return rows
}

// Rank sorts rows in place into the canonical standings order.
func Rank(rows []models.StandingRow, opts RankOptions) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if opts.DrawsBeforeOMW && a.Draws != b.Draws {
			return a.Draws > b.Draws
		}
		if a.OMW != b.OMW {
			return a.OMW > b.OMW
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.PlayerID < b.PlayerID
	})
}
