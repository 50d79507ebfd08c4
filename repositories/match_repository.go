package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/lib/pq"
)

var (
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchPlayerInvalid     = errors.New("match player conflict or invalid")
)

// MatchRepository only appends and reads: match records are immutable.
type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.MatchRecord) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.MatchRecord, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.MatchRecord) error {
	query := `
		INSERT INTO matches (tournament_id, player1_id, score1, player2_id, score2)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := pickExecutor(r.db, exec).QueryRowContext(ctx, query,
		m.TournamentID, m.Player1ID, m.Score1, m.Player2ID, m.Score2,
	).Scan(&m.ID, &m.CreatedAt)
	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.MatchRecord, error) {
	query := `
		SELECT id, tournament_id, player1_id, score1, player2_id, score2, created_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := pickExecutor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.MatchRecord, 0)
	for rows.Next() {
		var m models.MatchRecord
		if err := rows.Scan(&m.ID, &m.TournamentID, &m.Player1ID, &m.Score1, &m.Player2ID, &m.Score2, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_player1_id_fkey", "matches_player2_id_fkey":
			return ErrMatchPlayerInvalid
		}
	}
	return fmt.Errorf("failed to create match: %w", err)
}
