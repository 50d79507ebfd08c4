package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, mock
}

func TestTournamentCreateDefaultsToPlanned(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tournaments")).
		WithArgs("Spring Open", models.PhasePlanned).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, now))

	tournament := &models.Tournament{Name: "Spring Open"}
	require.NoError(t, repo.Create(context.Background(), nil, tournament))
	assert.Equal(t, 3, tournament.ID)
	assert.Equal(t, models.PhasePlanned, tournament.Phase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTournamentGetByIDNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tournaments WHERE id = $1")).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), nil, 42)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTournamentGetByIDForUpdateLocksRow(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 FOR UPDATE")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phase", "created_at"}).
			AddRow(5, "Cup", "ongoing", time.Now()))
	mock.ExpectCommit()

	tx, err := conn.Begin()
	require.NoError(t, err)
	tournament, err := repo.GetByIDForUpdate(context.Background(), tx, 5)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, models.PhaseOngoing, tournament.Phase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTournamentUpdatePhaseMissingRow(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tournaments SET phase = $1 WHERE id = $2")).
		WithArgs(models.PhaseClosed, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePhase(context.Background(), nil, 9, models.PhaseClosed)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTournamentUpdateNameWrapsDriverError(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)
	boom := errors.New("connection reset")

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tournaments SET name")).WillReturnError(boom)

	err := repo.UpdateName(context.Background(), nil, 1, "x")
	assert.ErrorIs(t, err, boom)
}

func TestTournamentCountByPhase(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM tournaments WHERE phase::text = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`^SELECT count\(\*\) FROM tournaments$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountByPhase(context.Background(), nil, models.PhasePlanned, models.PhaseOngoing)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountByPhase(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
