package models

import "time"

// Registration records that a player is entered into a tournament.
// ID is a serial and doubles as the registration order.
type Registration struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RegisteredPlayer is a registration joined with the player's display name.
type RegisteredPlayer struct {
	RegistrationID int    `json:"registration_id"`
	PlayerID       int    `json:"player_id"`
	Name           string `json:"name"`
}
