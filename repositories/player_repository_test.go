package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerCreateDefaultsToActive(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO players")).
		WithArgs("Alice", models.PlayerActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	p := &models.Player{Name: "Alice"}
	require.NoError(t, repo.Create(context.Background(), nil, p))
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, models.PlayerActive, p.Status)
}

func TestPlayerGetByID(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("FROM players WHERE id = $1")).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status", "created_at"}).
			AddRow(4, "Dmitri", "inactive", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM players WHERE id = $1")).
		WithArgs(5).
		WillReturnError(sql.ErrNoRows)

	p, err := repo.GetByID(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Equal(t, models.PlayerInactive, p.Status)

	_, err = repo.GetByID(context.Background(), nil, 5)
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerUpdateStatus(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE players SET status = $1 WHERE id = $2")).
		WithArgs(models.PlayerInactive, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE players SET status = $1 WHERE id = $2")).
		WithArgs(models.PlayerActive, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), nil, 2, models.PlayerInactive))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), nil, 99, models.PlayerActive), ErrPlayerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlayerCountByStatus(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresPlayerRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status::text = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountByStatus(context.Background(), nil, models.PlayerActive)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
