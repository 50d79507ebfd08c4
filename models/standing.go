package models

// StandingRow is derived from match records on every request and never stored.
type StandingRow struct {
	TournamentID int    `json:"tournament_id"`
	PlayerID     int    `json:"player_id"`
	Name         string `json:"name"`
	Matches      int    `json:"matches"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Byes         int    `json:"byes"`
	OMW          int    `json:"omw"` // sum of wins of every distinct opponent faced

	// registration order, used as the last tie-break
	Seq int `json:"-"`
}

func (s StandingRow) Losses() int {
	return s.Matches - s.Wins - s.Draws
}
