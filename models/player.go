package models

import "time"

type PlayerStatus string

const (
	PlayerActive   PlayerStatus = "active"
	PlayerInactive PlayerStatus = "inactive"
)

func (s PlayerStatus) Valid() bool {
	return s == PlayerActive || s == PlayerInactive
}

// Player is never physically removed in production, only deactivated.
type Player struct {
	ID        int          `json:"id" db:"id"`
	Name      string       `json:"name" db:"name"`
	Status    PlayerStatus `json:"status" db:"status"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
