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
	ErrRegistrationConflict          = errors.New("player is already registered for this tournament")
	ErrRegistrationPlayerInvalid     = errors.New("registration player conflict or invalid")
	ErrRegistrationTournamentInvalid = errors.New("registration tournament conflict or invalid")
)

type RegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error
	IsRegistered(ctx context.Context, exec SQLExecutor, tournamentID, playerID int) (bool, error)
	// ListPlayers returns registered players in registration order.
	ListPlayers(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.RegisteredPlayer, error)
	Count(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	// Delete removes the given players' registrations, or every registration of
	// the tournament when playerIDs is empty.
	Delete(ctx context.Context, exec SQLExecutor, tournamentID int, playerIDs ...int) (int64, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, player_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := pickExecutor(r.db, exec).QueryRowContext(ctx, query, reg.TournamentID, reg.PlayerID).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pqUniqueViolation:
				return ErrRegistrationConflict
			case pqForeignKeyViolation:
				switch pqErr.Constraint {
				case "registrations_player_id_fkey":
					return ErrRegistrationPlayerInvalid
				case "registrations_tournament_id_fkey":
					return ErrRegistrationTournamentInvalid
				}
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) IsRegistered(ctx context.Context, exec SQLExecutor, tournamentID, playerID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM registrations WHERE tournament_id = $1 AND player_id = $2)`

	var exists bool
	if err := pickExecutor(r.db, exec).QueryRowContext(ctx, query, tournamentID, playerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check registration t:%d p:%d: %w", tournamentID, playerID, err)
	}
	return exists, nil
}

func (r *postgresRegistrationRepository) ListPlayers(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.RegisteredPlayer, error) {
	query := `
		SELECT r.id, p.id, p.name
		FROM registrations r
		JOIN players p ON p.id = r.player_id
		WHERE r.tournament_id = $1
		ORDER BY r.id ASC`

	rows, err := pickExecutor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	players := make([]models.RegisteredPlayer, 0)
	for rows.Next() {
		var p models.RegisteredPlayer
		if err := rows.Scan(&p.RegistrationID, &p.PlayerID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan registration row: %w", err)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating registration rows: %w", err)
	}
	return players, nil
}

func (r *postgresRegistrationRepository) Count(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	query := `SELECT count(*) FROM registrations WHERE tournament_id = $1`

	var count int
	if err := pickExecutor(r.db, exec).QueryRowContext(ctx, query, tournamentID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrations for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, exec SQLExecutor, tournamentID int, playerIDs ...int) (int64, error) {
	query := `DELETE FROM registrations WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if len(playerIDs) > 0 {
		ids := make([]int64, len(playerIDs))
		for i, id := range playerIDs {
			ids[i] = int64(id)
		}
		query += ` AND player_id = ANY($2)`
		args = append(args, pq.Array(ids))
	}

	result, err := pickExecutor(r.db, exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete registrations for tournament %d: %w", tournamentID, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return deleted, nil
}
