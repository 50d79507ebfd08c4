package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/lib/pq"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// GetByIDForUpdate locks the tournament row until the surrounding
	// transaction ends. exec must be a transaction.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error
	UpdatePhase(ctx context.Context, exec SQLExecutor, id int, phase models.TournamentPhase) error
	CountByPhase(ctx context.Context, exec SQLExecutor, phases ...models.TournamentPhase) (int, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, phase)
		VALUES ($1, $2)
		RETURNING id, created_at`

	if t.Phase == "" {
		t.Phase = models.PhasePlanned
	}
	err := pickExecutor(r.db, exec).QueryRowContext(ctx, query, t.Name, t.Phase).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) scanTournament(row *sql.Row) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(&t.ID, &t.Name, &t.Phase, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament: %w", err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT id, name, phase, created_at FROM tournaments WHERE id = $1`
	return r.scanTournament(pickExecutor(r.db, exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT id, name, phase, created_at FROM tournaments WHERE id = $1 FOR UPDATE`
	return r.scanTournament(pickExecutor(r.db, exec).QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error {
	query := `UPDATE tournaments SET name = $1 WHERE id = $2`
	result, err := pickExecutor(r.db, exec).ExecContext(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdatePhase(ctx context.Context, exec SQLExecutor, id int, phase models.TournamentPhase) error {
	query := `UPDATE tournaments SET phase = $1 WHERE id = $2`
	result, err := pickExecutor(r.db, exec).ExecContext(ctx, query, phase, id)
	if err != nil {
		return fmt.Errorf("failed to update phase of tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// CountByPhase counts tournaments in any of the given phases, or all
// tournaments when none is given.
func (r *postgresTournamentRepository) CountByPhase(ctx context.Context, exec SQLExecutor, phases ...models.TournamentPhase) (int, error) {
	query := `SELECT count(*) FROM tournaments`
	args := []interface{}{}
	if len(phases) > 0 {
		names := make([]string, len(phases))
		for i, p := range phases {
			names[i] = string(p)
		}
		query += ` WHERE phase::text = ANY($1)`
		args = append(args, pq.Array(names))
	}

	var count int
	if err := pickExecutor(r.db, exec).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return count, nil
}
