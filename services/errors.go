package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/swiss"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	ErrNotFound               = errors.New("requested resource not found")
	ErrInvalidState           = errors.New("operation not allowed in current state")
	ErrNotRegistered          = errors.New("player is not registered for this tournament")
	ErrExhaustedByeCandidates = swiss.ErrExhaustedByeCandidates

	ErrValidationFailed     = errors.New("validation failed")
	ErrRegistrationConflict = errors.New("player is already registered for this tournament")

	// Уточнённые NotFound: errors.Is(err, ErrNotFound) для них тоже true.
	ErrTournamentNotFound = fmt.Errorf("tournament: %w", ErrNotFound)
	ErrPlayerNotFound     = fmt.Errorf("player: %w", ErrNotFound)
)

// InvalidStateError names the precondition that failed, with the current and
// the required value.
type InvalidStateError struct {
	Entity   string
	ID       int
	Field    string
	Current  string
	Required string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %d: %s is %q, required %q", e.Entity, e.ID, e.Field, e.Current, e.Required)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

func tournamentPhaseError(id int, current, required models.TournamentPhase) error {
	return &InvalidStateError{Entity: "tournament", ID: id, Field: "phase", Current: string(current), Required: string(required)}
}

func playerStatusError(id int, current, required models.PlayerStatus) error {
	return &InvalidStateError{Entity: "player", ID: id, Field: "status", Current: string(current), Required: string(required)}
}

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисов.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrRegistrationTournamentInvalid),
		errors.Is(err, repositories.ErrMatchTournamentInvalid):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrRegistrationPlayerInvalid),
		errors.Is(err, repositories.ErrMatchPlayerInvalid):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrRegistrationConflict):
		return ErrRegistrationConflict
	}
	return err
}
