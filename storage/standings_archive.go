package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/google/uuid"
)

// FinalStandings is the archived document of a closed tournament.
type FinalStandings struct {
	TournamentID int                  `json:"tournament_id"`
	Name         string               `json:"name"`
	ClosedAt     time.Time            `json:"closed_at"`
	Standings    []models.StandingRow `json:"standings"`
}

type StandingsArchive struct {
	uploader FileUploader
	now      func() time.Time
}

func NewStandingsArchive(uploader FileUploader) *StandingsArchive {
	return &StandingsArchive{uploader: uploader, now: time.Now}
}

// ArchiveKey is unique per upload so closing never overwrites an earlier copy.
func ArchiveKey(tournamentID int) string {
	return fmt.Sprintf("standings/tournament-%d/%s.json", tournamentID, uuid.NewString())
}

func (a *StandingsArchive) ArchiveStandings(ctx context.Context, tournament *models.Tournament, rows []models.StandingRow) (string, error) {
	doc := FinalStandings{
		TournamentID: tournament.ID,
		Name:         tournament.Name,
		ClosedAt:     a.now().UTC(),
		Standings:    rows,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode standings of tournament %d: %w", tournament.ID, err)
	}

	result, err := a.uploader.Upload(ctx, ArchiveKey(tournament.ID), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}
