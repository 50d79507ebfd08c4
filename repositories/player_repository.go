package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/lib/pq"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PlayerStatus) error
	CountByStatus(ctx context.Context, exec SQLExecutor, statuses ...models.PlayerStatus) (int, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Player) error {
	query := `
		INSERT INTO players (name, status)
		VALUES ($1, $2)
		RETURNING id, created_at`

	if p.Status == "" {
		p.Status = models.PlayerActive
	}
	err := pickExecutor(r.db, exec).QueryRowContext(ctx, query, p.Name, p.Status).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	query := `SELECT id, name, status, created_at FROM players WHERE id = $1`

	p := &models.Player{}
	err := pickExecutor(r.db, exec).QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) UpdateName(ctx context.Context, exec SQLExecutor, id int, name string) error {
	query := `UPDATE players SET name = $1 WHERE id = $2`
	result, err := pickExecutor(r.db, exec).ExecContext(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PlayerStatus) error {
	query := `UPDATE players SET status = $1 WHERE id = $2`
	result, err := pickExecutor(r.db, exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of player %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) CountByStatus(ctx context.Context, exec SQLExecutor, statuses ...models.PlayerStatus) (int, error) {
	query := `SELECT count(*) FROM players`
	args := []interface{}{}
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		query += ` WHERE status::text = ANY($1)`
		args = append(args, pq.Array(names))
	}

	var count int
	if err := pickExecutor(r.db, exec).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}
