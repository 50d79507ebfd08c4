package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
	"github.com/Dosada05/swiss-tournament/swiss"
	"github.com/stretchr/testify/require"
)

// memStore implements every repository in memory. The executor argument is
// ignored; transactions are only observed through sqlmock.
type memStore struct {
	mu            sync.Mutex
	tournaments   map[int]*models.Tournament
	players       map[int]*models.Player
	registrations []models.Registration
	matches       []models.MatchRecord
	nextID        int
}

func newMemStore() *memStore {
	return &memStore{
		tournaments: map[int]*models.Tournament{},
		players:     map[int]*models.Player{},
	}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) addTournament(name string, phase models.TournamentPhase) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.tournaments[id] = &models.Tournament{ID: id, Name: name, Phase: phase, CreatedAt: time.Now()}
	return id
}

func (m *memStore) addPlayer(name string, status models.PlayerStatus) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.players[id] = &models.Player{ID: id, Name: name, Status: status, CreatedAt: time.Now()}
	return id
}

func (m *memStore) register(tournamentID int, playerIDs ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, pid := range playerIDs {
		m.registrations = append(m.registrations, models.Registration{ID: m.id(), TournamentID: tournamentID, PlayerID: pid})
	}
}

func (m *memStore) addMatch(tournamentID, p1, s1, p2, s2 int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches = append(m.matches, models.MatchRecord{ID: m.id(), TournamentID: tournamentID, Player1ID: p1, Score1: s1, Player2ID: p2, Score2: s2})
}

// --- TournamentRepository ---

type memTournaments struct{ *memStore }

func (r memTournaments) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.id()
	t.CreatedAt = time.Now()
	cp := *t
	r.tournaments[t.ID] = &cp
	return nil
}

func (r memTournaments) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (r memTournaments) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r memTournaments) UpdateName(_ context.Context, _ repositories.SQLExecutor, id int, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Name = name
	return nil
}

func (r memTournaments) UpdatePhase(_ context.Context, _ repositories.SQLExecutor, id int, phase models.TournamentPhase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Phase = phase
	return nil
}

func (r memTournaments) CountByPhase(_ context.Context, _ repositories.SQLExecutor, phases ...models.TournamentPhase) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tournaments {
		if len(phases) == 0 {
			n++
			continue
		}
		for _, p := range phases {
			if t.Phase == p {
				n++
			}
		}
	}
	return n, nil
}

// --- PlayerRepository ---

type memPlayers struct{ *memStore }

func (r memPlayers) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.id()
	cp := *p
	r.players[p.ID] = &cp
	return nil
}

func (r memPlayers) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPlayers) UpdateName(_ context.Context, _ repositories.SQLExecutor, id int, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.Name = name
	return nil
}

func (r memPlayers) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.PlayerStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.Status = status
	return nil
}

func (r memPlayers) CountByStatus(_ context.Context, _ repositories.SQLExecutor, statuses ...models.PlayerStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.players {
		if len(statuses) == 0 {
			n++
			continue
		}
		for _, s := range statuses {
			if p.Status == s {
				n++
			}
		}
	}
	return n, nil
}

// --- RegistrationRepository ---

type memRegistrations struct{ *memStore }

func (r memRegistrations) Create(_ context.Context, _ repositories.SQLExecutor, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.registrations {
		if existing.TournamentID == reg.TournamentID && existing.PlayerID == reg.PlayerID {
			return repositories.ErrRegistrationConflict
		}
	}
	reg.ID = r.id()
	r.registrations = append(r.registrations, *reg)
	return nil
}

func (r memRegistrations) IsRegistered(_ context.Context, _ repositories.SQLExecutor, tournamentID, playerID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.registrations {
		if reg.TournamentID == tournamentID && reg.PlayerID == playerID {
			return true, nil
		}
	}
	return false, nil
}

func (r memRegistrations) ListPlayers(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.RegisteredPlayer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.RegisteredPlayer{}
	for _, reg := range r.registrations {
		if reg.TournamentID != tournamentID {
			continue
		}
		out = append(out, models.RegisteredPlayer{RegistrationID: reg.ID, PlayerID: reg.PlayerID, Name: r.players[reg.PlayerID].Name})
	}
	return out, nil
}

func (r memRegistrations) Count(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) (int, error) {
	players, _ := r.ListPlayers(ctx, exec, tournamentID)
	return len(players), nil
}

func (r memRegistrations) Delete(_ context.Context, _ repositories.SQLExecutor, tournamentID int, playerIDs ...int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listed := map[int]bool{}
	for _, id := range playerIDs {
		listed[id] = true
	}
	var deleted int64
	kept := r.registrations[:0]
	for _, reg := range r.registrations {
		if reg.TournamentID == tournamentID && (len(playerIDs) == 0 || listed[reg.PlayerID]) {
			deleted++
			continue
		}
		kept = append(kept, reg)
	}
	r.registrations = kept
	return deleted, nil
}

// --- MatchRepository ---

type memMatches struct{ *memStore }

func (r memMatches) Create(_ context.Context, _ repositories.SQLExecutor, m *models.MatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.id()
	r.matches = append(r.matches, *m)
	return nil
}

func (r memMatches) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.MatchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.MatchRecord{}
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

// --- collaborators ---

type recordingNotifier struct {
	mu     sync.Mutex
	events []swiss.Event
}

func (n *recordingNotifier) BroadcastToRoom(_ string, event swiss.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type fakeArchiver struct {
	err      error
	archived map[int][]models.StandingRow
}

func (a *fakeArchiver) ArchiveStandings(_ context.Context, t *models.Tournament, rows []models.StandingRow) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	if a.archived == nil {
		a.archived = map[int][]models.StandingRow{}
	}
	a.archived[t.ID] = rows
	return "https://archive.example/standings.json", nil
}

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

// newMockDB returns a sqlmock-backed handle that only sees Begin, Commit and
// Rollback, since the repositories above never touch it.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		conn.Close()
	})
	return conn, mock
}

func expectCommit(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func expectRollback(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectRollback()
}
