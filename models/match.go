package models

import "time"

// MatchRecord is an immutable outcome event. A record naming the same player on
// both sides is a bye.
type MatchRecord struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	Player1ID    int       `json:"player1_id"`
	Score1       int       `json:"score1"`
	Player2ID    int       `json:"player2_id"`
	Score2       int       `json:"score2"`
	CreatedAt    time.Time `json:"created_at"`
}

func (m MatchRecord) IsBye() bool {
	return m.Player1ID == m.Player2ID
}

func (m MatchRecord) IsDraw() bool {
	return !m.IsBye() && m.Score1 == m.Score2
}

// Winner returns the winning player and true, or false for a draw. A bye is won
// by its only player.
func (m MatchRecord) Winner() (int, bool) {
	switch {
	case m.IsBye():
		return m.Player1ID, true
	case m.Score1 > m.Score2:
		return m.Player1ID, true
	case m.Score2 > m.Score1:
		return m.Player2ID, true
	}
	return 0, false
}

// Opponent returns the other side of the match for playerID.
func (m MatchRecord) Opponent(playerID int) (int, bool) {
	if m.IsBye() {
		return 0, false
	}
	switch playerID {
	case m.Player1ID:
		return m.Player2ID, true
	case m.Player2ID:
		return m.Player1ID, true
	}
	return 0, false
}

// Involves reports whether playerID appears on either side.
func (m MatchRecord) Involves(playerID int) bool {
	return m.Player1ID == playerID || m.Player2ID == playerID
}

// Pairing is one table of the next round. For a bye Player1ID == Player2ID.
type Pairing struct {
	Player1ID   int    `json:"player1_id"`
	Player1Name string `json:"player1_name"`
	Player2ID   int    `json:"player2_id"`
	Player2Name string `json:"player2_name"`
	IsBye       bool   `json:"is_bye"`
}
