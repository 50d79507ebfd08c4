package models

import "time"

// TournamentPhase представляет этапы турнира, соответствующие ENUM в БД.
type TournamentPhase string

const (
	PhasePlanned TournamentPhase = "planned"
	PhaseOngoing TournamentPhase = "ongoing"
	PhaseClosed  TournamentPhase = "closed"
)

// Valid reports whether p is one of the known phases.
func (p TournamentPhase) Valid() bool {
	switch p {
	case PhasePlanned, PhaseOngoing, PhaseClosed:
		return true
	}
	return false
}

// Tournament представляет турнир.
type Tournament struct {
	ID        int             `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Phase     TournamentPhase `json:"phase" db:"phase"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
